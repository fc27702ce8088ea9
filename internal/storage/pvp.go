package storage

import (
	"database/sql"
	"fmt"
	"math"
)

// EloKFactor controls how far one match moves a rating
const EloKFactor = 32.0

// EnsurePvPProfile creates a combat profile with the default 1000 rating if
// the player has none yet.
func EnsurePvPProfile(userID int64) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO pvp_profiles (user_id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("failed to ensure pvp profile: %w", err)
	}
	return nil
}

// GetPvPProfile retrieves a player's combat standing
func GetPvPProfile(userID int64) (*PvPProfile, error) {
	var p PvPProfile
	var lastFight sql.NullTime
	err := db.QueryRow(`
		SELECT user_id, rating, wins, losses, streak, last_fight_at
		FROM pvp_profiles
		WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.Rating, &p.Wins, &p.Losses, &p.Streak, &lastFight)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pvp profile: %w", err)
	}
	if lastFight.Valid {
		p.LastFightAt = lastFight.Time
	}
	return &p, nil
}

// RecordPvPMatch appends a combat record. winnerID and loserID are 0 on a draw.
func RecordPvPMatch(challengerID, opponentID, winnerID, loserID int64, bet, challengerPower, opponentPower float64, outcome string) (int64, error) {
	var winner, loser interface{}
	if winnerID != 0 {
		winner = winnerID
	}
	if loserID != 0 {
		loser = loserID
	}
	result, err := db.Exec(`
		INSERT INTO pvp_matches (challenger_id, opponent_id, winner_id, loser_id, bet, challenger_power, opponent_power, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, challengerID, opponentID, winner, loser, bet, challengerPower, opponentPower, outcome)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pvp match: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// UpdateRatingsAfterMatch applies the Elo update for a decided match and
// bumps wins, losses and streaks in one transaction. The streak resets to ±1
// when the result direction flips and extends otherwise.
func UpdateRatingsAfterMatch(winnerID, loserID int64) (float64, float64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO pvp_profiles (user_id) VALUES (?)`, winnerID); err != nil {
		return 0, 0, fmt.Errorf("failed to ensure winner profile: %w", err)
	}
	if _, err := tx.Exec(`INSERT OR IGNORE INTO pvp_profiles (user_id) VALUES (?)`, loserID); err != nil {
		return 0, 0, fmt.Errorf("failed to ensure loser profile: %w", err)
	}

	var winnerRating, loserRating float64
	if err := tx.QueryRow(`SELECT rating FROM pvp_profiles WHERE user_id = ?`, winnerID).Scan(&winnerRating); err != nil {
		return 0, 0, fmt.Errorf("failed to get winner rating: %w", err)
	}
	if err := tx.QueryRow(`SELECT rating FROM pvp_profiles WHERE user_id = ?`, loserID).Scan(&loserRating); err != nil {
		return 0, 0, fmt.Errorf("failed to get loser rating: %w", err)
	}

	expectedWinner := 1.0 / (1.0 + math.Pow(10, (loserRating-winnerRating)/400.0))
	newWinner := winnerRating + EloKFactor*(1-expectedWinner)
	newLoser := loserRating - EloKFactor*(1-expectedWinner)

	_, err = tx.Exec(`
		UPDATE pvp_profiles
		SET rating = ?, wins = wins + 1,
		    streak = CASE WHEN streak >= 0 THEN streak + 1 ELSE 1 END,
		    last_fight_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, newWinner, winnerID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update winner: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE pvp_profiles
		SET rating = ?, losses = losses + 1,
		    streak = CASE WHEN streak <= 0 THEN streak - 1 ELSE -1 END,
		    last_fight_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, newLoser, loserID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update loser: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newWinner, newLoser, nil
}

// GetPvPMatches returns a player's recent matches, newest first
func GetPvPMatches(userID int64, limit int) ([]PvPMatch, error) {
	rows, err := db.Query(`
		SELECT id, challenger_id, opponent_id, COALESCE(winner_id, 0), COALESCE(loser_id, 0),
		       bet, challenger_power, opponent_power, outcome, created_at
		FROM pvp_matches
		WHERE challenger_id = ? OR opponent_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pvp matches: %w", err)
	}
	defer rows.Close()

	var matches []PvPMatch
	for rows.Next() {
		var m PvPMatch
		err := rows.Scan(&m.ID, &m.ChallengerID, &m.OpponentID, &m.WinnerID, &m.LoserID,
			&m.Bet, &m.ChallengerPower, &m.OpponentPower, &m.Outcome, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pvp match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pvp matches: %w", err)
	}
	return matches, nil
}

// GetPvPTop returns the combat leaderboard ordered by rating
func GetPvPTop(limit int) ([]PvPRank, error) {
	rows, err := db.Query(`
		SELECT p.user_id, p.username, p.first_name, pp.rating, pp.wins, pp.losses
		FROM pvp_profiles pp
		JOIN players p ON p.user_id = pp.user_id
		ORDER BY pp.rating DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pvp top: %w", err)
	}
	defer rows.Close()

	var top []PvPRank
	for rows.Next() {
		var r PvPRank
		if err := rows.Scan(&r.UserID, &r.Username, &r.FirstName, &r.Rating, &r.Wins, &r.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan pvp rank: %w", err)
		}
		r.Rank = len(top) + 1
		top = append(top, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pvp top: %w", err)
	}
	return top, nil
}
