package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/models"
)

// UpsertCostCode inserts or replaces a catalog cost code.
func (db *DB) UpsertCostCode(c models.CostCode) error {
	_, err := db.conn.Exec(`
		INSERT INTO cost_codes (code, description, category, unit, unit_cost, material_cost, labor_cost, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			description   = excluded.description,
			category      = excluded.category,
			unit          = excluded.unit,
			unit_cost     = excluded.unit_cost,
			material_cost = excluded.material_cost,
			labor_cost    = excluded.labor_cost,
			is_active     = excluded.is_active
	`, c.Code, c.Description, c.Category, c.Unit, c.UnitCost, c.MaterialCost, c.LaborCost, c.IsActive, c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: upsert cost code: %w", err)
	}
	return nil
}

// GetCostCode returns the cost code with the given code, or
// apperr.ErrNotFound.
func (db *DB) GetCostCode(code string) (*models.CostCode, error) {
	var c models.CostCode
	err := db.conn.QueryRow(`
		SELECT code, description, category, unit, unit_cost, material_cost, labor_cost, is_active, created_at
		FROM cost_codes WHERE code = ?
	`, code).Scan(&c.Code, &c.Description, &c.Category, &c.Unit, &c.UnitCost, &c.MaterialCost, &c.LaborCost, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cost code %s", apperr.ErrNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get cost code: %w", err)
	}
	return &c, nil
}

// ListCostCodes returns cost codes, optionally filtered by category,
// ordered by code.
func (db *DB) ListCostCodes(category string, activeOnly bool) ([]models.CostCode, error) {
	query := `
		SELECT code, description, category, unit, unit_cost, material_cost, labor_cost, is_active, created_at
		FROM cost_codes WHERE 1=1`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY code`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list cost codes: %w", err)
	}
	defer rows.Close()

	var out []models.CostCode
	for rows.Next() {
		var c models.CostCode
		if err := rows.Scan(&c.Code, &c.Description, &c.Category, &c.Unit, &c.UnitCost, &c.MaterialCost, &c.LaborCost, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertBid persists a bid; a duplicate bid number surfaces as
// apperr.ErrAlreadyExists.
func (db *DB) InsertBid(b models.Bid) error {
	items, err := json.Marshal(b.LineItems)
	if err != nil {
		return fmt.Errorf("store: marshal line items: %w", err)
	}
	calc, err := json.Marshal(b.Calculation)
	if err != nil {
		return fmt.Errorf("store: marshal calculation: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO bids (bid_number, project_name, charging_type, num_ports, status, line_items, calculation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.BidNumber, b.ProjectName, b.ChargingType, b.NumPorts, b.Status, string(items), string(calc), b.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bid %s", apperr.ErrAlreadyExists, b.BidNumber)
		}
		return fmt.Errorf("store: insert bid: %w", err)
	}
	return nil
}

// GetBid returns the bid with the given number, or apperr.ErrNotFound.
func (db *DB) GetBid(bidNumber string) (*models.Bid, error) {
	row := db.conn.QueryRow(`
		SELECT bid_number, project_name, charging_type, num_ports, status, line_items, calculation, created_at
		FROM bids WHERE bid_number = ?
	`, bidNumber)
	b, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: bid %s", apperr.ErrNotFound, bidNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get bid: %w", err)
	}
	return b, nil
}

// ListBids returns bids ordered newest first, with an optional status
// filter, plus the total matching count.
func (db *DB) ListBids(status string, limit, offset int) ([]models.Bid, int, error) {
	if limit <= 0 {
		limit = 50
	}
	where, args := `1=1`, []any{}
	if status != "" {
		where = `status = ?`
		args = append(args, status)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM bids WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count bids: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT bid_number, project_name, charging_type, num_ports, status, line_items, calculation, created_at
		FROM bids WHERE `+where+`
		ORDER BY created_at DESC, bid_number DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list bids: %w", err)
	}
	defer rows.Close()

	var out []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

func scanBid(r rowScanner) (*models.Bid, error) {
	var (
		b           models.Bid
		items, calc string
		createdAt   time.Time
	)
	if err := r.Scan(&b.BidNumber, &b.ProjectName, &b.ChargingType, &b.NumPorts, &b.Status, &items, &calc, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &b.LineItems); err != nil {
		return nil, fmt.Errorf("store: decode line items: %w", err)
	}
	if err := json.Unmarshal([]byte(calc), &b.Calculation); err != nil {
		return nil, fmt.Errorf("store: decode calculation: %w", err)
	}
	b.CreatedAt = createdAt
	return &b, nil
}
