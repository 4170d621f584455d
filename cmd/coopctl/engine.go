package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coopfood/coopconsole/internal/filters"
	"github.com/coopfood/coopconsole/internal/orderstore"
	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/config"
	"github.com/coopfood/coopconsole/pkg/dates"
	"github.com/coopfood/coopconsole/pkg/enums"
	"github.com/coopfood/coopconsole/pkg/env"
	"github.com/coopfood/coopconsole/pkg/logger"
)

// engineFlags are shared by every subcommand that loads a snapshot.
type engineFlags struct {
	snapshot string
	group    string
	timezone string
	locale   string
	now      string
	write    bool

	buyerID, buyer, article string
	from, to                string
	delivered, prepared     string
}

func (f *engineFlags) setup(c *cobra.Command) {
	engine := config.EngineConfig{
		Timezone: env.Get(config.EnvEngineTimezone, "Europe/Madrid"),
		Locale:   env.Get(config.EnvEngineLocale, "ca"),
	}
	c.PersistentFlags().StringVarP(&f.snapshot, "snapshot", "f", "snapshot.json", "exported orders snapshot (JSON)")
	c.PersistentFlags().StringVarP(&f.group, "group", "g", "", "consumer group id; empty keeps every record")
	c.PersistentFlags().StringVar(&f.timezone, "tz", engine.Timezone, "timezone for day boundaries")
	c.PersistentFlags().StringVar(&f.locale, "locale", engine.Locale, "collation locale for sorting names")
	c.PersistentFlags().StringVar(&f.now, "now", "", "evaluate as of this day (YYYY-MM-DD)")
	c.PersistentFlags().BoolVarP(&f.write, "write", "w", false, "write mutations back to the snapshot file")

	c.PersistentFlags().StringVar(&f.buyerID, "buyer-id", "", "keep one buyer (id or email)")
	c.PersistentFlags().StringVar(&f.buyer, "buyer", "", "buyer text search")
	c.PersistentFlags().StringVar(&f.article, "article", "", "article text search")
	c.PersistentFlags().StringVar(&f.from, "from", "", "orders created on or after this day")
	c.PersistentFlags().StringVar(&f.to, "to", "", "orders created on or before this day")
	c.PersistentFlags().StringVar(&f.delivered, "delivered", "", "all|delivered|undelivered")
	c.PersistentFlags().StringVar(&f.prepared, "prepared", "", "all|prepared|unprepared")
}

func (f *engineFlags) location() (*time.Location, error) {
	return config.EngineConfig{Timezone: f.timezone}.Location()
}

func (f *engineFlags) clock(loc *time.Location) (func() time.Time, error) {
	if f.now == "" {
		return time.Now, nil
	}
	day, err := dates.ParseDay(f.now, loc)
	if err != nil {
		return nil, err
	}
	return func() time.Time { return day }, nil
}

func (f *engineFlags) criteria(loc *time.Location) (filters.Criteria, error) {
	c := filters.Criteria{BuyerID: f.buyerID, BuyerText: f.buyer, ArticleText: f.article, Location: loc}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{f.from, &c.DateFrom}, {f.to, &c.DateTo}} {
		if d.raw == "" {
			continue
		}
		day, err := dates.ParseDay(d.raw, loc)
		if err != nil {
			return filters.Criteria{}, err
		}
		*d.dst = &day
	}
	c.Delivered = enums.DeliveredStateOrAll(f.delivered)
	c.Prepared = enums.PreparedStateOrAll(f.prepared)
	return c, nil
}

func (f *engineFlags) open() (*orderstore.MemoryStore, error) {
	file, err := os.Open(f.snapshot)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()
	snap, err := orderstore.ReadSnapshot(file)
	if err != nil {
		return nil, err
	}
	return orderstore.NewMemoryStore(snap), nil
}

// persist rewrites the snapshot file when --write was given.
func (f *engineFlags) persist(store *orderstore.MemoryStore) error {
	if !f.write {
		return nil
	}
	tmp := f.snapshot + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := store.WriteSnapshot(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, f.snapshot)
}

func newLogger(w io.Writer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "coopctl", Level: zerolog.WarnLevel, Format: logger.FormatConsole, Output: w})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// session is what every subcommand needs after flag parsing.
type session struct {
	store    *orderstore.MemoryStore
	loc      *time.Location
	now      func() time.Time
	criteria filters.Criteria
}

func (f *engineFlags) load() (*session, error) {
	loc, err := f.location()
	if err != nil {
		return nil, err
	}
	now, err := f.clock(loc)
	if err != nil {
		return nil, err
	}
	criteria, err := f.criteria(loc)
	if err != nil {
		return nil, err
	}
	store, err := f.open()
	if err != nil {
		return nil, err
	}
	return &session{store: store, loc: loc, now: now, criteria: criteria}, nil
}

func periodArg(raw string) string {
	if raw == "none" {
		return periods.NoPeriodID
	}
	return raw
}
