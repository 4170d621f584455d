package payments

import (
	"time"

	"github.com/coopfood/coopconsole/internal/buyers"
)

type options struct {
	loc    *time.Location
	locale string
	now    func() time.Time
	buyers *buyers.Resolver
}

// Option tunes an Aggregator.
type Option func(*options)

// WithLocation sets the timezone for period day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLocale sets the collation used to sort buyer and supplier names.
func WithLocale(locale string) Option {
	return func(o *options) {
		o.locale = locale
	}
}

// WithClock replaces time.Now for the service.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithBuyers reuses a resolver built over the unfiltered snapshot, so filtered
// orders still link emails to ids seen on orders the filter dropped.
func WithBuyers(resolver *buyers.Resolver) Option {
	return func(o *options) {
		o.buyers = resolver
	}
}

func buildOptions(opts []Option) options {
	o := options{loc: time.UTC, locale: "und", now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
