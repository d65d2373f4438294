package model

import (
	"encoding/json"
	"time"
)

// Food is a listing available for purchase. Besides the fields the server
// cares about, clients attach arbitrary descriptive attributes (name, price,
// category, image, ...) which are kept opaque in Attrs and round-tripped
// untouched.
type Food struct {
	ID            string
	OwnerEmail    string
	PurchaseCount int64
	Attrs         map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Wire field names, shared with the frontend.
const (
	foodIDField         = "id"
	foodOwnerField      = "userEmail"
	foodCountField      = "purchaseFoodCount"
	purchaseIDField     = "id"
	purchaseEmailField  = "email"
	purchaseFoodIDField = "foodId"
)

// MarshalJSON flattens the listing into a single JSON object: the opaque
// attributes plus the server-managed fields.
func (f Food) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(f.Attrs)+3)
	for k, v := range f.Attrs {
		doc[k] = v
	}
	doc[foodIDField] = f.ID
	doc[foodOwnerField] = f.OwnerEmail
	doc[foodCountField] = f.PurchaseCount
	return json.Marshal(doc)
}

// UnmarshalJSON splits a flat JSON object into the known fields and the
// opaque attribute map. The id and purchase counter are server-assigned, so
// client-supplied values for them are dropped rather than stored.
func (f *Food) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, foodIDField)
	delete(raw, foodCountField)
	if v, ok := raw[foodOwnerField].(string); ok {
		f.OwnerEmail = v
	}
	delete(raw, foodOwnerField)
	f.Attrs = raw
	return nil
}

// FoodPatch is a partial update for a listing: each key present overwrites
// the stored key wholesale, keys absent stay untouched. The purchase counter
// is excluded on purpose; it moves only through the atomic increment
// operation.
type FoodPatch struct {
	OwnerEmail *string
	Attrs      map[string]any
}

func (p *FoodPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, foodIDField)
	delete(raw, foodCountField)
	if v, ok := raw[foodOwnerField].(string); ok {
		p.OwnerEmail = &v
	}
	delete(raw, foodOwnerField)
	p.Attrs = raw
	return nil
}
