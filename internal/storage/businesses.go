package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// CreateBusiness inserts a new business for a player
func CreateBusiness(userID int64, businessType, name string, income, expenses float64) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO businesses (user_id, business_type, name, income, expenses)
		VALUES (?, ?, ?, ?, ?)
	`, userID, businessType, name, income, expenses)
	if err != nil {
		return 0, fmt.Errorf("failed to insert business: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func scanBusiness(scan func(dest ...interface{}) error) (*Business, error) {
	var b Business
	var improvements string
	err := scan(
		&b.ID,
		&b.UserID,
		&b.BusinessType,
		&b.Name,
		&b.Income,
		&b.Expenses,
		&b.StaffSalary,
		&b.Level,
		&improvements,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(improvements), &b.Improvements); err != nil {
		return nil, fmt.Errorf("failed to decode improvements: %w", err)
	}
	return &b, nil
}

const businessColumns = `id, user_id, business_type, name, income, expenses, staff_salary, level, improvements, created_at`

// GetBusiness retrieves a single business by id
func GetBusiness(businessID int64) (*Business, error) {
	row := db.QueryRow(`SELECT `+businessColumns+` FROM businesses WHERE id = ?`, businessID)
	b, err := scanBusiness(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return b, nil
}

// GetPlayerBusinesses returns all businesses owned by a player
func GetPlayerBusinesses(userID int64) ([]Business, error) {
	rows, err := db.Query(`SELECT `+businessColumns+` FROM businesses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	var businesses []Business
	for rows.Next() {
		b, err := scanBusiness(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}
	return businesses, nil
}

// CountPlayerBusinesses returns how many businesses a player currently owns
func CountPlayerBusinesses(userID int64) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM businesses WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	return count, nil
}

// ApplyImprovement persists a purchased improvement: the recalculated income
// and expenses plus the updated improvement set, guarded against applying the
// same improvement twice. Returns false when the business no longer matches
// (foreign, missing, or the improvement raced in from another call).
func ApplyImprovement(businessID, userID int64, improvementID string, newIncome, newExpenses float64, improvements []string) (bool, error) {
	encoded, err := json.Marshal(improvements)
	if err != nil {
		return false, fmt.Errorf("failed to encode improvements: %w", err)
	}

	// The instr guard keeps the at-most-once invariant under concurrent
	// purchases of the same improvement.
	result, err := db.Exec(`
		UPDATE businesses
		SET income = ?, expenses = ?, improvements = ?
		WHERE id = ? AND user_id = ? AND instr(improvements, ?) = 0
	`, newIncome, newExpenses, string(encoded), businessID, userID, `"`+improvementID+`"`)
	if err != nil {
		return false, fmt.Errorf("failed to apply improvement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetStaffSalary updates the fixed recurring staff cost of a business
func SetStaffSalary(businessID int64, salary float64) error {
	_, err := db.Exec(`UPDATE businesses SET staff_salary = ? WHERE id = ?`, salary, businessID)
	if err != nil {
		return fmt.Errorf("failed to set staff salary: %w", err)
	}
	return nil
}

// SellBusiness deletes a business and credits the sale value in one
// transaction. Returns false when the business does not belong to the caller.
func SellBusiness(userID, businessID int64, saleValue float64) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM productions WHERE business_id = ?
		AND EXISTS (SELECT 1 FROM businesses WHERE id = ? AND user_id = ?)
	`, businessID, businessID, userID); err != nil {
		return false, fmt.Errorf("failed to delete productions: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM businesses WHERE id = ? AND user_id = ?`, businessID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete business: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`
		UPDATE players
		SET balance = balance + ?, total_income = total_income + ?, last_active = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, saleValue, saleValue, userID); err != nil {
		return false, fmt.Errorf("failed to credit sale: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO transactions (user_id, business_id, type, amount, description)
		VALUES (?, ?, ?, ?, 'Business sold')
	`, userID, businessID, TxBusinessSale, saleValue); err != nil {
		return false, fmt.Errorf("failed to insert sale transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}
