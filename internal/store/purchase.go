package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/epiqdine/epiqdine/internal/model"
)

type PurchaseStore struct {
	db *sql.DB
}

func NewPurchaseStore(db *sql.DB) *PurchaseStore {
	return &PurchaseStore{db: db}
}

const purchaseCols = `id, email, food_id, attrs, created_at`

func scanPurchase(scanner interface{ Scan(...any) error }) (*model.PurchaseOrder, error) {
	var p model.PurchaseOrder
	var attrs []byte

	err := scanner.Scan(&p.ID, &p.Email, &p.FoodID, &attrs, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &p.Attrs); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	return &p, nil
}

// Insert stores a new purchase record, assigns its id, and returns the
// stored document.
func (s *PurchaseStore) Insert(p *model.PurchaseOrder) (*model.PurchaseOrder, error) {
	id := uuid.NewString()
	attrs, err := json.Marshal(p.Attrs)
	if err != nil {
		return nil, fmt.Errorf("encode attrs: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO purchases (id, email, food_id, attrs, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, p.Email, p.FoodID, attrs, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns the purchase record, or nil when no record has that id.
func (s *PurchaseStore) GetByID(id string) (*model.PurchaseOrder, error) {
	row := s.db.QueryRow(`SELECT `+purchaseCols+` FROM purchases WHERE id = ?`, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// List returns every purchase record.
func (s *PurchaseStore) List() ([]model.PurchaseOrder, error) {
	rows, err := s.db.Query(`SELECT ` + purchaseCols + ` FROM purchases ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return collectPurchases(rows)
}

// ListByEmail returns the purchase records created by the given purchaser.
func (s *PurchaseStore) ListByEmail(email string) ([]model.PurchaseOrder, error) {
	rows, err := s.db.Query(
		`SELECT `+purchaseCols+` FROM purchases WHERE email = ? ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases by email: %w", err)
	}
	return collectPurchases(rows)
}

func collectPurchases(rows *sql.Rows) ([]model.PurchaseOrder, error) {
	defer rows.Close()

	var purchases []model.PurchaseOrder
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	return purchases, rows.Err()
}

// DeleteByID removes at most one purchase record and reports how many rows
// were deleted; an unknown id yields a zero count, not an error.
func (s *PurchaseStore) DeleteByID(id string) (*model.DeleteResult, error) {
	result, err := s.db.Exec(`DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete purchase: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	return &model.DeleteResult{DeletedCount: count}, nil
}
