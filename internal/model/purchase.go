package model

import (
	"encoding/json"
	"time"
)

// PurchaseOrder is a transaction record linking a purchaser to a listing.
// Quantity, price at purchase and similar descriptive fields are opaque and
// live in Attrs.
type PurchaseOrder struct {
	ID        string
	Email     string
	FoodID    string
	Attrs     map[string]any
	CreatedAt time.Time
}

func (p PurchaseOrder) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Attrs)+3)
	for k, v := range p.Attrs {
		doc[k] = v
	}
	doc[purchaseIDField] = p.ID
	doc[purchaseEmailField] = p.Email
	doc[purchaseFoodIDField] = p.FoodID
	return json.Marshal(doc)
}

func (p *PurchaseOrder) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, purchaseIDField)
	if v, ok := raw[purchaseEmailField].(string); ok {
		p.Email = v
	}
	delete(raw, purchaseEmailField)
	if v, ok := raw[purchaseFoodIDField].(string); ok {
		p.FoodID = v
	}
	delete(raw, purchaseFoodIDField)
	p.Attrs = raw
	return nil
}
