package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/epiqdine/epiqdine/internal/model"
)

type FoodStore struct {
	db *sql.DB
}

func NewFoodStore(db *sql.DB) *FoodStore {
	return &FoodStore{db: db}
}

const foodCols = `id, owner_email, purchase_count, attrs, created_at, updated_at`

func scanFood(scanner interface{ Scan(...any) error }) (*model.Food, error) {
	var f model.Food
	var attrs []byte

	err := scanner.Scan(&f.ID, &f.OwnerEmail, &f.PurchaseCount, &attrs, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &f.Attrs); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	return &f, nil
}

// Insert stores a new listing, assigns its id, and returns the stored
// document.
func (s *FoodStore) Insert(f *model.Food) (*model.Food, error) {
	id := uuid.NewString()
	attrs, err := json.Marshal(f.Attrs)
	if err != nil {
		return nil, fmt.Errorf("encode attrs: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO foods (id, owner_email, purchase_count, attrs, created_at, updated_at) VALUES (?, ?, 0, ?, ?, ?)`,
		id, f.OwnerEmail, attrs, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert food: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns the listing, or nil when no listing has that id.
func (s *FoodStore) GetByID(id string) (*model.Food, error) {
	row := s.db.QueryRow(`SELECT `+foodCols+` FROM foods WHERE id = ?`, id)
	f, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}
	return f, nil
}

// ListTop returns up to limit listings ordered by purchase count, most
// purchased first.
func (s *FoodStore) ListTop(limit int) ([]model.Food, error) {
	rows, err := s.db.Query(
		`SELECT `+foodCols+` FROM foods ORDER BY purchase_count DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list top foods: %w", err)
	}
	return collectFoods(rows)
}

// List returns every listing.
func (s *FoodStore) List() ([]model.Food, error) {
	rows, err := s.db.Query(`SELECT ` + foodCols + ` FROM foods ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return collectFoods(rows)
}

// ListByOwner returns the listings created by the given user.
func (s *FoodStore) ListByOwner(email string) ([]model.Food, error) {
	rows, err := s.db.Query(
		`SELECT `+foodCols+` FROM foods WHERE owner_email = ? ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list foods by owner: %w", err)
	}
	return collectFoods(rows)
}

func collectFoods(rows *sql.Rows) ([]model.Food, error) {
	defer rows.Close()

	var foods []model.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

// UpsertPatch patches a listing in a single statement: each key present in
// the patch overwrites the stored key wholesale (nested objects are replaced,
// not merged, and a null value is stored as null), absent keys are untouched.
// When no listing has the id, a new document is created from the patch. The
// purchase counter is never written here.
func (s *FoodStore) UpsertPatch(id string, patch *model.FoodPatch) (*model.UpdateResult, error) {
	attrs, err := json.Marshal(patch.Attrs)
	if err != nil {
		return nil, fmt.Errorf("encode attrs: %w", err)
	}

	var existed bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM foods WHERE id = ?)`, id).Scan(&existed); err != nil {
		return nil, fmt.Errorf("check food: %w", err)
	}

	var owner sql.NullString
	if patch.OwnerEmail != nil {
		owner = sql.NullString{String: *patch.OwnerEmail, Valid: true}
	}

	// json_set replaces the value at each path, unlike json_patch which
	// merges nested objects and drops keys patched to null.
	keys := make([]string, 0, len(patch.Attrs))
	for k := range patch.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	setExpr := "foods.attrs"
	patchArgs := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		v, err := json.Marshal(patch.Attrs[k])
		if err != nil {
			return nil, fmt.Errorf("encode attr %q: %w", k, err)
		}
		patchArgs = append(patchArgs, `$."`+k+`"`, string(v))
	}
	if len(keys) > 0 {
		setExpr = "json_set(foods.attrs" + strings.Repeat(", ?, json(?)", len(keys)) + ")"
	}

	now := time.Now().UTC()
	args := append([]any{id, owner, string(attrs), now, now, owner}, patchArgs...)
	args = append(args, now)

	_, err = s.db.Exec(
		`INSERT INTO foods (id, owner_email, purchase_count, attrs, created_at, updated_at)
		 VALUES (?, COALESCE(?, ''), 0, json(?), ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     owner_email = COALESCE(?, foods.owner_email),
		     attrs = `+setExpr+`,
		     updated_at = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert food: %w", err)
	}

	if existed {
		return &model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	upserted := id
	return &model.UpdateResult{UpsertedID: &upserted}, nil
}

// IncrementPurchaseCount atomically adds delta (which may be negative) to a
// listing's purchase counter. The arithmetic happens inside a single SQL
// statement, so concurrent increments on the same listing all accumulate.
// When no listing has the id, a sparse document holding only the counter is
// created, matching the upsert behavior of the update paths.
func (s *FoodStore) IncrementPurchaseCount(id string, delta int64) (*model.UpdateResult, error) {
	var existed bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM foods WHERE id = ?)`, id).Scan(&existed); err != nil {
		return nil, fmt.Errorf("check food: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO foods (id, owner_email, purchase_count, attrs, created_at, updated_at)
		 VALUES (?1, '', ?2, '{}', ?3, ?3)
		 ON CONFLICT(id) DO UPDATE SET
		     purchase_count = foods.purchase_count + ?2,
		     updated_at = ?3`,
		id, delta, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("increment purchase count: %w", err)
	}

	if existed {
		return &model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	upserted := id
	return &model.UpdateResult{UpsertedID: &upserted}, nil
}
