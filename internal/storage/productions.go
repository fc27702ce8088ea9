package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// CreateProduction starts a timed production job that becomes collectible
// after the given duration.
func CreateProduction(businessID int64, prodType, name string, version int64, durationMinutes int64, quantity float64, meta map[string]string) (int64, error) {
	if meta == nil {
		meta = map[string]string{}
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("failed to encode meta: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO productions (business_id, prod_type, name, version, ready_at, quantity, meta)
		VALUES (?, ?, ?, ?, datetime('now', ?), ?, ?)
	`, businessID, prodType, name, version, fmt.Sprintf("+%d minutes", durationMinutes), quantity, string(encoded))
	if err != nil {
		return 0, fmt.Errorf("failed to insert production: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func scanProduction(scan func(dest ...interface{}) error) (*Production, error) {
	var p Production
	var meta string
	err := scan(
		&p.ID,
		&p.BusinessID,
		&p.ProdType,
		&p.Name,
		&p.Version,
		&p.Status,
		&p.StartedAt,
		&p.ReadyAt,
		&p.Quantity,
		&meta,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(meta), &p.Meta); err != nil {
		return nil, fmt.Errorf("failed to decode meta: %w", err)
	}
	return &p, nil
}

const productionColumns = `id, business_id, prod_type, name, version, status, started_at, ready_at, quantity, meta`

// GetBusinessProductions returns a business's jobs, newest first
func GetBusinessProductions(businessID int64) ([]Production, error) {
	rows, err := db.Query(`
		SELECT `+productionColumns+` FROM productions
		WHERE business_id = ?
		ORDER BY id DESC
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query productions: %w", err)
	}
	defer rows.Close()

	var productions []Production
	for rows.Next() {
		p, err := scanProduction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan production: %w", err)
		}
		productions = append(productions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating productions: %w", err)
	}
	return productions, nil
}

// CollectProduction performs the exactly-once collection transition. The
// status flip is a single conditional update — collected only if the job is
// ready and not yet collected — and the RowsAffected check decides whether
// this caller won. Two concurrent collectors of the same job therefore get
// exactly one payout between them without any lock. ok is false when the job
// is missing, foreign, not ready, or already collected; the caller cannot
// tell which, by design.
func CollectProduction(productionID, callerID int64) (*Production, bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var p Production
	var meta string
	err = tx.QueryRow(`
		SELECT p.id, p.business_id, p.prod_type, p.name, p.version, p.status,
		       p.started_at, p.ready_at, p.quantity, p.meta, b.user_id
		FROM productions p
		JOIN businesses b ON b.id = p.business_id
		WHERE p.id = ?
	`, productionID).Scan(
		&p.ID, &p.BusinessID, &p.ProdType, &p.Name, &p.Version, &p.Status,
		&p.StartedAt, &p.ReadyAt, &p.Quantity, &meta, &p.OwnerID,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get production: %w", err)
	}
	if p.OwnerID != callerID {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(meta), &p.Meta); err != nil {
		return nil, false, fmt.Errorf("failed to decode meta: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE productions SET status = 'collected'
		WHERE id = ? AND datetime(ready_at) <= datetime('now') AND status != 'collected'
	`, productionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to collect production: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, false, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.Status = ProductionStatusCollected
	return &p, true, nil
}
