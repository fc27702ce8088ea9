package storage

import (
	"fmt"
)

// GrantAchievement records an earned badge. The unique (user, type) index
// makes the grant idempotent; the bool reports whether this call created the
// row or the badge was already held.
func GrantAchievement(userID int64, achievementType, title, description string) (bool, error) {
	result, err := db.Exec(`
		INSERT OR IGNORE INTO achievements (user_id, achievement_type, title, description)
		VALUES (?, ?, ?, ?)
	`, userID, achievementType, title, description)
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetAchievements returns a player's badges, newest first
func GetAchievements(userID int64) ([]Achievement, error) {
	rows, err := db.Query(`
		SELECT id, user_id, achievement_type, title, COALESCE(description, ''), earned_at
		FROM achievements
		WHERE user_id = ?
		ORDER BY earned_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Title, &a.Description, &a.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return achievements, nil
}

// GetAchievementTypes returns the set of badge types a player already holds
func GetAchievementTypes(userID int64) (map[string]bool, error) {
	rows, err := db.Query(`SELECT achievement_type FROM achievements WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement types: %w", err)
	}
	defer rows.Close()

	types := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan achievement type: %w", err)
		}
		types[t] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement types: %w", err)
	}
	return types, nil
}
