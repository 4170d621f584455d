package orderstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/coopfood/coopconsole/pkg/db/models"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/types"
)

// MemoryStore serves an exported snapshot and applies the mutation commands to
// it in place, with the same rules as Store. coopctl works on one of these.
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewMemoryStore(snap *Snapshot) *MemoryStore {
	m := &MemoryStore{snap: Snapshot{Orders: []models.Order{}, Periods: []models.Period{}}}
	if snap != nil {
		m.snap = cloneSnapshot(*snap)
	}
	return m
}

// LoadSnapshot returns a copy scoped to groupID. Records without a group are
// assumed to belong to it.
func (m *MemoryStore) LoadSnapshot(ctx context.Context, groupID string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Snapshot{Orders: []models.Order{}, Periods: []models.Period{}}
	for _, o := range m.snap.Orders {
		if inGroup(o.ConsumerGroupID, groupID) {
			out.Orders = append(out.Orders, o)
		}
	}
	for _, p := range m.snap.Periods {
		if inGroup(p.ConsumerGroupID, groupID) {
			out.Periods = append(out.Periods, p)
		}
	}
	out = cloneSnapshot(out)
	return &out, nil
}

// SetItemsPaid settles or clears the targeted items. Nothing changes unless
// every target resolves.
func (m *MemoryStore) SetItemsPaid(ctx context.Context, groupID string, targets []PaymentTarget, paid bool) error {
	if err := validateTargets(targets); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]models.Order, len(m.snap.Orders))
	copy(orders, m.snap.Orders)
	for _, target := range targets {
		i := m.indexOf(groupID, target.OrderID)
		if i < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
				WithDetails(map[string]any{"order_id": target.OrderID})
		}
		order := orders[i]
		order.Items = append([]models.OrderItem{}, order.Items...)
		if _, err := applyPayment(&order, target, paid); err != nil {
			return err
		}
		orders[i] = order
	}
	m.snap.Orders = orders
	return nil
}

func (m *MemoryStore) SetItemPrepared(ctx context.Context, groupID, orderID, itemID string, prepared bool) error {
	if orderID == "" || itemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i, j, ok := m.find(groupID, orderID, itemID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}
	m.snap.Orders[i].Items[j].IsPrepared = prepared
	return nil
}

func (m *MemoryStore) DeleteItem(ctx context.Context, groupID, orderID, itemID string) (bool, error) {
	if orderID == "" || itemID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i, j, ok := m.find(groupID, orderID, itemID)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}
	order := &m.snap.Orders[i]
	order.Items = append(order.Items[:j:j], order.Items[j+1:]...)
	if len(order.Items) == 0 {
		m.snap.Orders = append(m.snap.Orders[:i:i], m.snap.Orders[i+1:]...)
		return true, nil
	}
	var total types.Number
	for _, it := range order.Items {
		total += it.TotalPrice
	}
	order.TotalAmount = total
	return false, nil
}

// WriteSnapshot encodes the current state in the same shape ReadSnapshot accepts.
func (m *MemoryStore) WriteSnapshot(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

func (m *MemoryStore) indexOf(groupID, orderID string) int {
	for i, o := range m.snap.Orders {
		if o.ID == orderID && inGroup(o.ConsumerGroupID, groupID) {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) find(groupID, orderID, itemID string) (int, int, bool) {
	for i, o := range m.snap.Orders {
		if o.ID != orderID || !inGroup(o.ConsumerGroupID, groupID) {
			continue
		}
		for j, it := range o.Items {
			if it.ID == itemID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func inGroup(recordGroup, groupID string) bool {
	recordGroup = strings.TrimSpace(recordGroup)
	return recordGroup == "" || groupID == "" || recordGroup == groupID
}

func containsString(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{
		Orders:  make([]models.Order, len(s.Orders)),
		Periods: append([]models.Period{}, s.Periods...),
	}
	for i, o := range s.Orders {
		o.Items = append([]models.OrderItem{}, o.Items...)
		out.Orders[i] = o
	}
	return out
}
