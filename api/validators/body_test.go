package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
)

func TestDecodeToggle(t *testing.T) {
	checked, err := DecodeToggle(httptest.NewRecorder(), httptest.NewRequest("POST", "/x", strings.NewReader(`{"checked":false}`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checked {
		t.Fatal("expected explicit false to survive decoding")
	}
}

func TestDecodeToggleRequiresFlag(t *testing.T) {
	bodies := []string{`{}`, `{"checked":"yes"}`, `{"checked":true,"extra":1}`, ``, `{"checked":true}{"checked":false}`}
	for _, body := range bodies {
		_, err := DecodeToggle(httptest.NewRecorder(), httptest.NewRequest("POST", "/x", strings.NewReader(body)))
		if err == nil {
			t.Fatalf("body %q: expected error", body)
		}
		if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
			t.Fatalf("body %q: expected validation code, got %s", body, code)
		}
	}
}

func TestDecodeToggleRejectsLargeBodies(t *testing.T) {
	body := `{"checked":true,"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	_, err := DecodeToggle(httptest.NewRecorder(), httptest.NewRequest("POST", "/x", strings.NewReader(body)))
	if err == nil {
		t.Fatal("expected oversized body to fail")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", code)
	}
}
