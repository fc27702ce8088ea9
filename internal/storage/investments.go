package storage

import (
	"database/sql"
	"fmt"
)

// CreateInvestment inserts an active investment whose current value starts at
// the placed amount.
func CreateInvestment(userID int64, strategy string, amount, expectedReturn, volatility float64, matureDays int64) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO investments (user_id, strategy, amount, expected_return, current_value, volatility, matures_at, status)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now', ?), 'active')
	`, userID, strategy, amount, expectedReturn, amount, volatility, fmt.Sprintf("+%d days", matureDays))
	if err != nil {
		return 0, fmt.Errorf("failed to insert investment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

const investmentColumns = `id, user_id, strategy, amount, expected_return, current_value, volatility, created_at, matures_at, status`

func scanInvestment(scan func(dest ...interface{}) error) (*Investment, error) {
	var inv Investment
	err := scan(
		&inv.ID,
		&inv.UserID,
		&inv.Strategy,
		&inv.Amount,
		&inv.ExpectedReturn,
		&inv.CurrentValue,
		&inv.Volatility,
		&inv.CreatedAt,
		&inv.MaturesAt,
		&inv.Status,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvestment retrieves an investment owned by the given player
func GetInvestment(userID, investmentID int64) (*Investment, error) {
	row := db.QueryRow(`SELECT `+investmentColumns+` FROM investments WHERE id = ? AND user_id = ?`, investmentID, userID)
	inv, err := scanInvestment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return inv, nil
}

// GetOpenInvestments returns a player's active and matured investments
func GetOpenInvestments(userID int64) ([]Investment, error) {
	rows, err := db.Query(`
		SELECT `+investmentColumns+` FROM investments
		WHERE user_id = ? AND status IN ('active', 'matured')
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()
	return collectInvestments(rows)
}

// ListActiveInvestments returns every active investment, for the price walk
func ListActiveInvestments() ([]Investment, error) {
	rows, err := db.Query(`SELECT ` + investmentColumns + ` FROM investments WHERE status = 'active'`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active investments: %w", err)
	}
	defer rows.Close()
	return collectInvestments(rows)
}

func collectInvestments(rows *sql.Rows) ([]Investment, error) {
	var investments []Investment
	for rows.Next() {
		inv, err := scanInvestment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments: %w", err)
	}
	return investments, nil
}

// SetInvestmentValue writes a new price-walked value, floored at zero.
// Price updates are last-writer-wins; concurrent walks only add noise.
func SetInvestmentValue(investmentID int64, value float64) error {
	_, err := db.Exec(`
		UPDATE investments
		SET current_value = MAX(?, 0), last_price_update = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'active'
	`, value, investmentID)
	if err != nil {
		return fmt.Errorf("failed to set investment value: %w", err)
	}
	return nil
}

// MarkMaturedInvestments transitions every past-due active investment to
// matured. The transition is monotonic; running it redundantly is harmless.
func MarkMaturedInvestments() (int64, error) {
	result, err := db.Exec(`
		UPDATE investments SET status = 'matured'
		WHERE status = 'active' AND datetime(matures_at) <= datetime('now')
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to mark matured investments: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ClaimInvestment transitions a matured investment to claimed and returns its
// current value. The status change is a conditional update checked through
// RowsAffected, so of two concurrent claims exactly one succeeds. ok is false
// when no matured investment matched (missing, foreign, or wrong status).
func ClaimInvestment(userID, investmentID int64) (float64, bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var value float64
	err = tx.QueryRow(`
		SELECT current_value FROM investments
		WHERE id = ? AND user_id = ? AND status = 'matured'
	`, investmentID, userID).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get investment value: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE investments SET status = 'claimed'
		WHERE id = ? AND user_id = ? AND status = 'matured'
	`, investmentID, userID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to claim investment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, nil
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	if value < 0 {
		value = 0
	}
	return value, true, nil
}

// WithdrawInvestment exits an active or matured investment. The payout and
// the status the investment held before withdrawing are returned so the
// caller can report whether the early-exit penalty applied. Same
// conditional-update discipline as ClaimInvestment.
func WithdrawInvestment(userID, investmentID int64, activePenalty float64) (float64, InvestmentStatus, bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prior InvestmentStatus
	var value float64
	err = tx.QueryRow(`
		SELECT status, current_value FROM investments
		WHERE id = ? AND user_id = ? AND status IN ('active', 'matured')
	`, investmentID, userID).Scan(&prior, &value)
	if err == sql.ErrNoRows {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to get investment: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE investments SET status = 'withdrawn'
		WHERE id = ? AND user_id = ? AND status IN ('active', 'matured')
	`, investmentID, userID)
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to withdraw investment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, "", false, nil
	}

	if err := tx.Commit(); err != nil {
		return 0, "", false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if value < 0 {
		value = 0
	}
	payout := value
	if prior == InvestmentStatusActive {
		payout = value * (1 - activePenalty)
	}
	if payout < 0 {
		payout = 0
	}
	return payout, prior, true, nil
}
