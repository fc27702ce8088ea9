package storage

import (
	"fmt"
)

// SetCooldown upserts a (player, action) throttle expiring after the given
// number of seconds. A single atomic write; no read-modify-write involved.
func SetCooldown(userID int64, actionType string, durationSeconds int64) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO cooldowns (user_id, action_type, expires_at)
		VALUES (?, ?, datetime('now', ?))
	`, userID, actionType, fmt.Sprintf("+%d seconds", durationSeconds))
	if err != nil {
		return fmt.Errorf("failed to set cooldown: %w", err)
	}
	return nil
}

// CooldownRemaining returns the whole seconds left on a (player, action)
// cooldown, or 0 when none is active or no row exists.
func CooldownRemaining(userID int64, actionType string) (int64, error) {
	var remaining int64
	// Aggregate MAX so a missing row yields NULL -> 0 instead of no rows.
	err := db.QueryRow(`
		SELECT COALESCE(MAX(strftime('%s', expires_at) - strftime('%s', 'now')), 0)
		FROM cooldowns
		WHERE user_id = ? AND action_type = ?
	`, userID, actionType).Scan(&remaining)
	if err != nil {
		return 0, fmt.Errorf("failed to get cooldown: %w", err)
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
