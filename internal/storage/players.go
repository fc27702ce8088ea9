package storage

import (
	"database/sql"
	"fmt"
)

// GetPlayer retrieves a player by their Telegram user ID
func GetPlayer(userID int64) (*Player, error) {
	var p Player
	err := db.QueryRow(`
		SELECT user_id, username, first_name, balance, total_income, total_expenses,
		       popularity, level, experience, created_at, last_active
		FROM players
		WHERE user_id = ?
	`, userID).Scan(
		&p.UserID,
		&p.Username,
		&p.FirstName,
		&p.Balance,
		&p.TotalIncome,
		&p.TotalExpenses,
		&p.Popularity,
		&p.Level,
		&p.Experience,
		&p.CreatedAt,
		&p.LastActive,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// CreatePlayer creates a new player with the starting balance and a welcome
// transaction. Safe to call for an existing player; the existing row wins.
func CreatePlayer(userID int64, username, firstName string) (*Player, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT OR IGNORE INTO players (user_id, username, first_name, balance)
		VALUES (?, ?, ?, ?)
	`, userID, username, firstName, StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted > 0 {
		_, err = tx.Exec(`
			INSERT INTO transactions (user_id, type, amount, description)
			VALUES (?, ?, ?, 'Starting capital')
		`, userID, TxWelcomeBonus, StartingBalance)
		if err != nil {
			return nil, fmt.Errorf("failed to insert welcome transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return GetPlayer(userID)
}

// ApplyDelta atomically adds a signed amount to a player's balance, folds it
// into the lifetime income or expense total, stamps last_active and appends a
// transaction row. The increment runs server-side so concurrent callers never
// lose updates. businessID of 0 records the transaction without a business.
func ApplyDelta(userID, businessID int64, amount float64, txType, description string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE players
		SET balance = balance + ?,
		    total_income = total_income + CASE WHEN ? > 0 THEN ? ELSE 0 END,
		    total_expenses = total_expenses + CASE WHEN ? < 0 THEN ABS(?) ELSE 0 END,
		    last_active = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, amount, amount, amount, amount, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %d not found", userID)
	}

	var bizID interface{}
	if businessID != 0 {
		bizID = businessID
	}
	_, err = tx.Exec(`
		INSERT INTO transactions (user_id, business_id, type, amount, description)
		VALUES (?, ?, ?, ?, ?)
	`, userID, bizID, txType, amount, description)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddExperience increments a player's experience and returns the new total
func AddExperience(userID int64, gained int64) (int64, error) {
	_, err := db.Exec(`
		UPDATE players SET experience = experience + ?, last_active = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, gained, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to add experience: %w", err)
	}
	var exp int64
	if err := db.QueryRow(`SELECT experience FROM players WHERE user_id = ?`, userID).Scan(&exp); err != nil {
		return 0, fmt.Errorf("failed to read experience: %w", err)
	}
	return exp, nil
}

// UpdatePopularity shifts a player's popularity, floored at zero
func UpdatePopularity(userID int64, delta float64) error {
	_, err := db.Exec(`
		UPDATE players SET popularity = MAX(popularity + ?, 0), last_active = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to update popularity: %w", err)
	}
	return nil
}

// ApplyLevelUp sets the new level and remaining experience and grants the
// level bonuses in one transaction. The balance bonus goes through the same
// ledger discipline as every other balance mutation.
func ApplyLevelUp(userID int64, newLevel, remainingXP int64, balanceBonus, popularityBonus float64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE players
		SET level = ?, experience = ?,
		    balance = balance + ?,
		    total_income = total_income + ?,
		    popularity = popularity + ?,
		    last_active = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, newLevel, remainingXP, balanceBonus, balanceBonus, popularityBonus, userID)
	if err != nil {
		return fmt.Errorf("failed to apply level up: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %d not found", userID)
	}

	_, err = tx.Exec(`
		INSERT INTO transactions (user_id, type, amount, description)
		VALUES (?, ?, ?, ?)
	`, userID, TxLevelUp, balanceBonus, fmt.Sprintf("Level %d bonus", newLevel))
	if err != nil {
		return fmt.Errorf("failed to insert level up transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTopPlayers returns the leaderboard ordered by balance
func GetTopPlayers(limit int) ([]PlayerRank, error) {
	rows, err := db.Query(`
		SELECT user_id, username, first_name, balance, level
		FROM players
		ORDER BY balance DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %w", err)
	}
	defer rows.Close()

	var top []PlayerRank
	for rows.Next() {
		var r PlayerRank
		if err := rows.Scan(&r.UserID, &r.Username, &r.FirstName, &r.Balance, &r.Level); err != nil {
			return nil, fmt.Errorf("failed to scan player rank: %w", err)
		}
		r.Rank = len(top) + 1
		top = append(top, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top players: %w", err)
	}
	return top, nil
}

// GetTransactions returns a player's most recent transactions
func GetTransactions(userID int64, limit int) ([]Transaction, error) {
	rows, err := db.Query(`
		SELECT id, user_id, COALESCE(business_id, 0), type, amount, COALESCE(description, ''), created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.BusinessID, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// PurgePlayer removes a player and every row they own. Admin-only.
func PurgePlayer(userID int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM transactions WHERE user_id = ?`,
		`DELETE FROM productions WHERE business_id IN (SELECT id FROM businesses WHERE user_id = ?)`,
		`DELETE FROM businesses WHERE user_id = ?`,
		`DELETE FROM achievements WHERE user_id = ?`,
		`DELETE FROM loans WHERE user_id = ?`,
		`DELETE FROM investments WHERE user_id = ?`,
		`DELETE FROM pvp_profiles WHERE user_id = ?`,
		`DELETE FROM cooldowns WHERE user_id = ?`,
		`DELETE FROM players WHERE user_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, userID); err != nil {
			return fmt.Errorf("failed to purge player: %w", err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM pvp_matches WHERE challenger_id = ? OR opponent_id = ?`, userID, userID); err != nil {
		return fmt.Errorf("failed to purge matches: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
