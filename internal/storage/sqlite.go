package storage

import (
	"database/sql"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	// StartingBalance is the capital a new player receives on first contact
	StartingBalance float64 = 10000
)

var db *sql.DB

// InitDB initializes the SQLite database connection with WAL mode
func InitDB(dbPath string) error {
	var err error

	path := dbPath
	if path != ":memory:" {
		path, err = filepath.Abs(dbPath)
		if err != nil {
			return err
		}
	}

	db, err = sql.Open("sqlite", path)
	if err != nil {
		return err
	}

	// Enable WAL mode for better concurrency
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return err
	}

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		return err
	}

	// Run migrations
	if err := runMigrations(); err != nil {
		return err
	}

	return nil
}

// DB returns the database connection
func DB() *sql.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// runMigrations creates the necessary tables
func runMigrations() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			user_id INTEGER PRIMARY KEY,
			username TEXT,
			first_name TEXT NOT NULL,
			balance REAL DEFAULT 0,
			total_income REAL DEFAULT 0,
			total_expenses REAL DEFAULT 0,
			popularity REAL DEFAULT 1.0,
			level INTEGER DEFAULT 1,
			experience INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_active DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS businesses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			business_type TEXT NOT NULL,
			name TEXT NOT NULL,
			income REAL NOT NULL,
			expenses REAL NOT NULL,
			staff_salary REAL DEFAULT 0,
			level INTEGER DEFAULT 1,
			improvements TEXT DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES players(user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			business_id INTEGER,
			type TEXT NOT NULL,
			amount REAL NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES players(user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS loans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			amount REAL NOT NULL,
			interest_rate REAL NOT NULL,
			term_days INTEGER NOT NULL,
			issued_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			due_date DATETIME NOT NULL,
			remaining REAL NOT NULL,
			status TEXT DEFAULT 'active',
			FOREIGN KEY (user_id) REFERENCES players(user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS investments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			strategy TEXT NOT NULL,
			amount REAL NOT NULL,
			expected_return REAL NOT NULL,
			current_value REAL NOT NULL,
			volatility REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			matures_at DATETIME NOT NULL,
			last_price_update DATETIME DEFAULT CURRENT_TIMESTAMP,
			status TEXT DEFAULT 'active',
			FOREIGN KEY (user_id) REFERENCES players(user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS productions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			business_id INTEGER NOT NULL,
			prod_type TEXT NOT NULL,
			name TEXT NOT NULL,
			version INTEGER DEFAULT 1,
			status TEXT DEFAULT 'in_progress',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ready_at DATETIME NOT NULL,
			quantity REAL DEFAULT 0,
			meta TEXT DEFAULT '{}',
			FOREIGN KEY (business_id) REFERENCES businesses(id)
		)`,

		`CREATE TABLE IF NOT EXISTS pvp_profiles (
			user_id INTEGER PRIMARY KEY,
			rating REAL DEFAULT 1000,
			wins INTEGER DEFAULT 0,
			losses INTEGER DEFAULT 0,
			streak INTEGER DEFAULT 0,
			last_fight_at DATETIME,
			FOREIGN KEY (user_id) REFERENCES players(user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS pvp_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			challenger_id INTEGER NOT NULL,
			opponent_id INTEGER NOT NULL,
			winner_id INTEGER,
			loser_id INTEGER,
			bet REAL NOT NULL,
			challenger_power REAL,
			opponent_power REAL,
			outcome TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (challenger_id) REFERENCES players(user_id),
			FOREIGN KEY (opponent_id) REFERENCES players(user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS cooldowns (
			user_id INTEGER NOT NULL,
			action_type TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, action_type)
		)`,

		`CREATE TABLE IF NOT EXISTS achievements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			achievement_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			earned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES players(user_id)
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_achievements_user_type ON achievements(user_id, achievement_type)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_businesses_user_id ON businesses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_user_status ON loans(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_status ON investments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_productions_business_id ON productions(business_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
