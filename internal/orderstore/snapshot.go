package orderstore

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/coopfood/coopconsole/pkg/db/models"
)

// Snapshot is one freshly fetched view of a consumer group's orders and periods.
type Snapshot struct {
	Orders  []models.Order  `json:"orders"`
	Periods []models.Period `json:"periods"`
}

// ReadSnapshot decodes an exported snapshot, as the remote API would return it.
// Item order ids left blank in the export are filled from the parent order.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	for i := range snap.Orders {
		for j := range snap.Orders[i].Items {
			if snap.Orders[i].Items[j].OrderID == "" {
				snap.Orders[i].Items[j].OrderID = snap.Orders[i].ID
			}
		}
	}
	if snap.Orders == nil {
		snap.Orders = []models.Order{}
	}
	if snap.Periods == nil {
		snap.Periods = []models.Period{}
	}
	return &snap, nil
}
