package storage

import (
	"database/sql"
	"fmt"
)

// CreateLoan inserts an active loan. Remaining starts at the principal;
// interest is disclosed to the caller but never added to the payable balance.
func CreateLoan(userID int64, amount, interestRate float64, termDays int64) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO loans (user_id, amount, interest_rate, term_days, due_date, remaining, status)
		VALUES (?, ?, ?, ?, datetime('now', ?), ?, 'active')
	`, userID, amount, interestRate, termDays, fmt.Sprintf("+%d days", termDays), amount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert loan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

const loanColumns = `id, user_id, amount, interest_rate, term_days, issued_at, due_date, remaining, status`

func scanLoan(scan func(dest ...interface{}) error) (*Loan, error) {
	var l Loan
	err := scan(
		&l.ID,
		&l.UserID,
		&l.Amount,
		&l.InterestRate,
		&l.TermDays,
		&l.IssuedAt,
		&l.DueDate,
		&l.Remaining,
		&l.Status,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLoan retrieves a loan owned by the given player
func GetLoan(userID, loanID int64) (*Loan, error) {
	row := db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE id = ? AND user_id = ?`, loanID, userID)
	l, err := scanLoan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

// GetActiveLoans returns a player's open loans, newest first
func GetActiveLoans(userID int64) ([]Loan, error) {
	rows, err := db.Query(`
		SELECT `+loanColumns+` FROM loans
		WHERE user_id = ? AND status = 'active'
		ORDER BY issued_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		l, err := scanLoan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loans: %w", err)
	}
	return loans, nil
}

// RepayLoan reduces the remaining balance of an active loan, clamped so it
// never goes below zero, and closes the loan when it reaches zero. Both
// updates run in one transaction keyed on status = 'active', so a concurrent
// repayment of the last ruble can close the loan only once. Returns the
// amount actually paid and whether an active loan matched.
func RepayLoan(userID, loanID int64, amount float64) (float64, bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var remaining float64
	err = tx.QueryRow(`
		SELECT remaining FROM loans
		WHERE id = ? AND user_id = ? AND status = 'active'
	`, loanID, userID).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get loan remaining: %w", err)
	}

	paid := amount
	if paid > remaining {
		paid = remaining
	}

	result, err := tx.Exec(`
		UPDATE loans
		SET remaining = MAX(remaining - ?, 0),
		    status = CASE WHEN remaining - ? <= 0 THEN 'closed' ELSE status END
		WHERE id = ? AND user_id = ? AND status = 'active'
	`, paid, paid, loanID, userID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to repay loan: %w", err)
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
	return paid, true, nil
}
