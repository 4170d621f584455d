package baskets

import (
	"time"

	"github.com/coopfood/coopconsole/internal/buyers"
)

type options struct {
	loc         *time.Location
	locale      string
	now         func() time.Time
	buyers      *buyers.Resolver
	concurrency int
}

// Option tunes tree building and the bulk commands.
type Option func(*options)

// WithLocation sets the timezone for period day boundaries and date filters.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLocale sets the collation used to sort period and article names.
func WithLocale(locale string) Option {
	return func(o *options) {
		o.locale = locale
	}
}

// WithClock replaces time.Now for the finished classification.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithBuyers reuses a resolver built over the unfiltered snapshot.
func WithBuyers(resolver *buyers.Resolver) Option {
	return func(o *options) {
		o.buyers = resolver
	}
}

// WithConcurrency caps the store calls a bulk toggle keeps in flight.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{loc: time.UTC, locale: "und", now: time.Now, concurrency: 8}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
