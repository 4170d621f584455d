package buyers

import (
	"strings"

	"github.com/coopfood/coopconsole/pkg/db/models"
)

const (
	// UnknownKey groups orders that carry neither a buyer id nor an email.
	UnknownKey  = "unknown"
	UnknownName = "Unknown buyer"

	emailKeyPrefix = "email:"
)

// Identity is the single normalized buyer reference used by every aggregation.
type Identity struct {
	Key   string `json:"key"`
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name"`
}

// IsUnknown reports whether the identity is the fallback bucket.
func (i Identity) IsUnknown() bool {
	return i.Key == UnknownKey
}

// Resolver maps orders to identities. Emails seen next to an id on any order
// resolve to that id everywhere in the snapshot.
type Resolver struct {
	idByEmail map[string]string
	nameByKey map[string]string
}

// NewResolver scans the snapshot once to link emails to buyer ids.
func NewResolver(orders []models.Order) *Resolver {
	r := &Resolver{
		idByEmail: make(map[string]string),
		nameByKey: make(map[string]string),
	}
	for _, order := range orders {
		id := strings.TrimSpace(order.BuyerID)
		email := normalizeEmail(order.BuyerEmail)
		if id != "" && email != "" {
			if _, seen := r.idByEmail[email]; !seen {
				r.idByEmail[email] = id
			}
		}
	}
	for _, order := range orders {
		key := r.key(order)
		if name := strings.TrimSpace(order.BuyerName); name != "" {
			if _, seen := r.nameByKey[key]; !seen {
				r.nameByKey[key] = name
			}
		}
	}
	return r
}

// Resolve returns the normalized identity of the order's buyer.
func (r *Resolver) Resolve(order models.Order) Identity {
	key := r.key(order)
	if key == UnknownKey {
		return Identity{Key: UnknownKey, Name: UnknownName}
	}
	identity := Identity{
		Key:   key,
		Email: strings.TrimSpace(order.BuyerEmail),
	}
	if !strings.HasPrefix(key, emailKeyPrefix) {
		identity.ID = key
	}
	identity.Name = r.displayName(key, identity)
	return identity
}

// Matches reports whether the raw buyer reference (id or email) designates the identity.
func (r *Resolver) Matches(identity Identity, ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if ref == identity.Key || (identity.ID != "" && ref == identity.ID) {
		return true
	}
	return r.KeyFor(ref) == identity.Key
}

// KeyFor normalizes a raw buyer reference (id, email, or key) into a key.
func (r *Resolver) KeyFor(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return UnknownKey
	case ref == UnknownKey:
		return UnknownKey
	case strings.HasPrefix(ref, emailKeyPrefix):
		return r.keyForEmail(strings.TrimPrefix(ref, emailKeyPrefix))
	case strings.Contains(ref, "@"):
		return r.keyForEmail(ref)
	default:
		return ref
	}
}

func (r *Resolver) key(order models.Order) string {
	if id := strings.TrimSpace(order.BuyerID); id != "" {
		return id
	}
	return r.keyForEmail(order.BuyerEmail)
}

func (r *Resolver) keyForEmail(raw string) string {
	email := normalizeEmail(raw)
	if email == "" {
		return UnknownKey
	}
	if id, ok := r.idByEmail[email]; ok {
		return id
	}
	return emailKeyPrefix + email
}

func (r *Resolver) displayName(key string, identity Identity) string {
	if name, ok := r.nameByKey[key]; ok {
		return name
	}
	if identity.Email != "" {
		return identity.Email
	}
	if identity.ID != "" {
		return identity.ID
	}
	return UnknownName
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
