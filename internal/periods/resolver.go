package periods

import (
	"strings"
	"time"

	"github.com/coopfood/coopconsole/pkg/dates"
	"github.com/coopfood/coopconsole/pkg/db/models"
)

const (
	// NoPeriodID keys the bucket for items no period claims.
	NoPeriodID        = ""
	NoPeriodName      = "No period"
	UnknownSupplierID = ""
	UnknownSupplier   = "Unknown supplier"
)

// Overlap flags two periods whose date windows intersect. Items placed by
// date go to First because it comes earlier in the supplied list.
type Overlap struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

// Resolver assigns line items to periods.
type Resolver struct {
	periods  []models.Period
	byID     map[string]int
	loc      *time.Location
	overlaps []Overlap
}

// NewResolver keeps the supplied order; it is the tie-break order for date matches.
func NewResolver(periods []models.Period, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	r := &Resolver{
		periods: periods,
		byID:    make(map[string]int, len(periods)),
		loc:     loc,
	}
	for i, p := range periods {
		if _, dup := r.byID[p.ID]; !dup {
			r.byID[p.ID] = i
		}
	}
	for i := range periods {
		for j := i + 1; j < len(periods); j++ {
			if r.intersect(periods[i], periods[j]) {
				r.overlaps = append(r.overlaps, Overlap{FirstID: periods[i].ID, SecondID: periods[j].ID})
			}
		}
	}
	return r
}

// Resolve returns the period the item belongs to, or nil for the no-period bucket.
func (r *Resolver) Resolve(order models.Order, item models.OrderItem) *models.Period {
	if item.PeriodID != nil {
		if p := r.Lookup(*item.PeriodID); p != nil {
			return p
		}
	}
	for i := range r.periods {
		p := &r.periods[i]
		if dates.WithinDays(order.CreatedAt, p.StartDate, p.EndDate, r.loc) {
			return p
		}
	}
	return nil
}

// ResolveID is Resolve reduced to the bucket key.
func (r *Resolver) ResolveID(order models.Order, item models.OrderItem) string {
	if p := r.Resolve(order, item); p != nil {
		return p.ID
	}
	return NoPeriodID
}

// Lookup finds a known period by id.
func (r *Resolver) Lookup(id string) *models.Period {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if i, ok := r.byID[id]; ok {
		return &r.periods[i]
	}
	return nil
}

// Periods returns the periods in resolution order.
func (r *Resolver) Periods() []models.Period {
	return r.periods
}

// Overlaps lists intersecting period windows found at construction.
func (r *Resolver) Overlaps() []Overlap {
	return r.overlaps
}

// Location is the timezone used for day boundaries.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

func (r *Resolver) intersect(a, b models.Period) bool {
	aStart, aEnd := dates.StartOfDay(a.StartDate, r.loc), dates.EndOfDay(a.EndDate, r.loc)
	bStart, bEnd := dates.StartOfDay(b.StartDate, r.loc), dates.EndOfDay(b.EndDate, r.loc)
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// IsFinished reports whether the period's end date is strictly before now.
func IsFinished(p models.Period, now time.Time) bool {
	return p.EndDate.Before(now)
}

// DeliveredBy reports whether the delivery day is today or earlier.
func DeliveredBy(p models.Period, now time.Time, loc *time.Location) bool {
	return dates.SameOrBeforeDay(p.DeliveryDate, now, loc)
}

// DisplayName falls back to the no-period label for nil.
func DisplayName(p *models.Period) string {
	if p == nil {
		return NoPeriodName
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.ID
}

// SupplierName degrades to a placeholder when the supplier cannot be resolved.
func SupplierName(p *models.Period) string {
	if p == nil {
		return UnknownSupplier
	}
	if p.Supplier != nil && strings.TrimSpace(p.Supplier.Name) != "" {
		return p.Supplier.Name
	}
	if name := strings.TrimSpace(p.SupplierName); name != "" {
		return name
	}
	return UnknownSupplier
}

// SupplierID returns the period's supplier id, empty when unknown.
func SupplierID(p *models.Period) string {
	if p == nil {
		return UnknownSupplierID
	}
	if p.SupplierID != "" {
		return p.SupplierID
	}
	if p.Supplier != nil {
		return p.Supplier.ID
	}
	return UnknownSupplierID
}
