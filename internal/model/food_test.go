package model

import (
	"encoding/json"
	"testing"
)

func TestFoodUnmarshalSplitsKnownFields(t *testing.T) {
	data := []byte(`{"name":"Pasta","price":12.5,"userEmail":"a@x.com","purchaseFoodCount":99,"id":"client-supplied"}`)

	var f Food
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if f.OwnerEmail != "a@x.com" {
		t.Errorf("OwnerEmail = %q, want %q", f.OwnerEmail, "a@x.com")
	}
	// id and counter are server-assigned; client values must be dropped
	if f.ID != "" {
		t.Errorf("ID = %q, want empty", f.ID)
	}
	if f.PurchaseCount != 0 {
		t.Errorf("PurchaseCount = %d, want 0", f.PurchaseCount)
	}
	if f.Attrs["name"] != "Pasta" {
		t.Errorf("Attrs[name] = %v, want Pasta", f.Attrs["name"])
	}
	if f.Attrs["price"] != 12.5 {
		t.Errorf("Attrs[price] = %v, want 12.5", f.Attrs["price"])
	}
	if _, ok := f.Attrs["userEmail"]; ok {
		t.Error("userEmail should not remain in Attrs")
	}
}

func TestFoodMarshalFlattens(t *testing.T) {
	f := Food{
		ID:            "abc",
		OwnerEmail:    "a@x.com",
		PurchaseCount: 3,
		Attrs:         map[string]any{"name": "Pasta", "category": "italian"},
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal flat doc: %v", err)
	}

	if doc["id"] != "abc" {
		t.Errorf("id = %v, want abc", doc["id"])
	}
	if doc["userEmail"] != "a@x.com" {
		t.Errorf("userEmail = %v, want a@x.com", doc["userEmail"])
	}
	if doc["purchaseFoodCount"] != float64(3) {
		t.Errorf("purchaseFoodCount = %v, want 3", doc["purchaseFoodCount"])
	}
	if doc["name"] != "Pasta" {
		t.Errorf("name = %v, want Pasta", doc["name"])
	}
	if doc["category"] != "italian" {
		t.Errorf("category = %v, want italian", doc["category"])
	}
}

func TestFoodPatchExcludesCounter(t *testing.T) {
	data := []byte(`{"name":"Ramen","purchaseFoodCount":500,"userEmail":"b@x.com"}`)

	var p FoodPatch
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}

	if p.OwnerEmail == nil || *p.OwnerEmail != "b@x.com" {
		t.Errorf("OwnerEmail = %v, want b@x.com", p.OwnerEmail)
	}
	if p.Attrs["name"] != "Ramen" {
		t.Errorf("Attrs[name] = %v, want Ramen", p.Attrs["name"])
	}
	if _, ok := p.Attrs["purchaseFoodCount"]; ok {
		t.Error("purchaseFoodCount must not pass through a patch")
	}
}

func TestFoodPatchWithoutOwner(t *testing.T) {
	var p FoodPatch
	if err := json.Unmarshal([]byte(`{"price":9}`), &p); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	if p.OwnerEmail != nil {
		t.Errorf("OwnerEmail = %v, want nil", p.OwnerEmail)
	}
}

func TestPurchaseOrderRoundTrip(t *testing.T) {
	data := []byte(`{"email":"a@x.com","foodId":"f-1","quantity":2,"price":25}`)

	var p PurchaseOrder
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", p.Email)
	}
	if p.FoodID != "f-1" {
		t.Errorf("FoodID = %q, want f-1", p.FoodID)
	}
	if p.Attrs["quantity"] != float64(2) {
		t.Errorf("Attrs[quantity] = %v, want 2", p.Attrs["quantity"])
	}

	p.ID = "p-1"
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal flat doc: %v", err)
	}
	if doc["id"] != "p-1" || doc["email"] != "a@x.com" || doc["foodId"] != "f-1" || doc["price"] != float64(25) {
		t.Errorf("unexpected flat doc: %v", doc)
	}
}
