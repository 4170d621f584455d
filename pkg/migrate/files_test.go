package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSQLMigrationPassesValidation(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Buyer Notes!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_buyer_notes.sql") {
		t.Fatalf("unexpected migration name %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), " !! "); err == nil {
		t.Fatalf("expected error for a name with no usable characters")
	}
}

func TestValidateDirRejects(t *testing.T) {
	cases := map[string]struct {
		name string
		body string
	}{
		"bad filename":   {name: "orders.sql", body: "-- +goose Up\n-- +goose Down\n"},
		"missing down":   {name: "20260301090000_orders.sql", body: "-- +goose Up\n"},
		"down before up": {name: "20260301090000_orders.sql", body: "-- +goose Down\n-- +goose Up\n"},
		"unbalanced": {
			name: "20260301090000_orders.sql",
			body: "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tc.name), []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if err := ValidateDir(dir); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidateDirRequiresMigrations(t *testing.T) {
	if err := ValidateDir(t.TempDir()); err == nil {
		t.Fatalf("expected an empty directory to fail")
	}
}
