package storage

import (
	"time"
)

// Player represents a game account
type Player struct {
	UserID        int64     `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	FirstName     string    `json:"first_name" db:"first_name"`
	Balance       float64   `json:"balance" db:"balance"`
	TotalIncome   float64   `json:"total_income" db:"total_income"`
	TotalExpenses float64   `json:"total_expenses" db:"total_expenses"`
	Popularity    float64   `json:"popularity" db:"popularity"`
	Level         int64     `json:"level" db:"level"`
	Experience    int64     `json:"experience" db:"experience"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	LastActive    time.Time `json:"last_active" db:"last_active"`
}

// Business represents one venture owned by a player
type Business struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	BusinessType string    `json:"business_type" db:"business_type"`
	Name         string    `json:"name" db:"name"`
	Income       float64   `json:"income" db:"income"`
	Expenses     float64   `json:"expenses" db:"expenses"`
	StaffSalary  float64   `json:"staff_salary" db:"staff_salary"`
	Level        int64     `json:"level" db:"level"`
	Improvements []string  `json:"improvements" db:"improvements"` // stored as a JSON array
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Transaction represents a balance change. Rows are append-only; one is
// written for every ledger mutation.
type Transaction struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	BusinessID  int64     `json:"business_id,omitempty" db:"business_id"`
	Type        string    `json:"type" db:"type"`
	Amount      float64   `json:"amount" db:"amount"` // signed
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Transaction type tags
const (
	TxWelcomeBonus       = "welcome_bonus"
	TxBusinessStartup    = "business_startup"
	TxBusinessSale       = "business_sale"
	TxImprovement        = "improvement"
	TxDailyIncome        = "daily_income"
	TxLoan               = "loan"
	TxLoanRepay          = "loan_repay"
	TxInvestment         = "investment"
	TxInvestmentIncome   = "investment_income"
	TxInvestmentWithdraw = "investment_withdraw"
	TxProduction         = "production"
	TxPvPWin             = "pvp_win"
	TxPvPLoss            = "pvp_loss"
	TxLevelUp            = "level_up"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// Loan represents a debt instrument. Remaining starts at the principal and
// only ever decreases; the loan closes when it reaches zero.
type Loan struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	Amount       float64    `json:"amount" db:"amount"`
	InterestRate float64    `json:"interest_rate" db:"interest_rate"` // per day
	TermDays     int64      `json:"term_days" db:"term_days"`
	IssuedAt     time.Time  `json:"issued_at" db:"issued_at"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	Remaining    float64    `json:"remaining" db:"remaining"`
	Status       LoanStatus `json:"status" db:"status"`
}

// InvestmentStatus represents the lifecycle state of an investment
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusMatured   InvestmentStatus = "matured"
	InvestmentStatusClaimed   InvestmentStatus = "claimed"
	InvestmentStatusWithdrawn InvestmentStatus = "withdrawn"
)

// Investment represents a capital placement whose current value follows a
// bounded random walk until it is claimed or withdrawn.
type Investment struct {
	ID             int64            `json:"id" db:"id"`
	UserID         int64            `json:"user_id" db:"user_id"`
	Strategy       string           `json:"strategy" db:"strategy"`
	Amount         float64          `json:"amount" db:"amount"`
	ExpectedReturn float64          `json:"expected_return" db:"expected_return"`
	CurrentValue   float64          `json:"current_value" db:"current_value"`
	Volatility     float64          `json:"volatility" db:"volatility"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	MaturesAt      time.Time        `json:"matures_at" db:"matures_at"`
	Status         InvestmentStatus `json:"status" db:"status"`
}

// ProductionStatus represents the lifecycle state of a production job
type ProductionStatus string

const (
	ProductionStatusInProgress ProductionStatus = "in_progress"
	ProductionStatusCollected  ProductionStatus = "collected"
)

// Production represents a timed manufacturing job owned by a business
type Production struct {
	ID         int64             `json:"id" db:"id"`
	BusinessID int64             `json:"business_id" db:"business_id"`
	OwnerID    int64             `json:"owner_id" db:"-"` // resolved via the owning business
	ProdType   string            `json:"prod_type" db:"prod_type"`
	Name       string            `json:"name" db:"name"`
	Version    int64             `json:"version" db:"version"`
	Status     ProductionStatus  `json:"status" db:"status"`
	StartedAt  time.Time         `json:"started_at" db:"started_at"`
	ReadyAt    time.Time         `json:"ready_at" db:"ready_at"`
	Quantity   float64           `json:"quantity" db:"quantity"`
	Meta       map[string]string `json:"meta" db:"meta"` // stored as a JSON object
}

// PvPProfile represents a player's combat standing
type PvPProfile struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Rating      float64   `json:"rating" db:"rating"`
	Wins        int64     `json:"wins" db:"wins"`
	Losses      int64     `json:"losses" db:"losses"`
	Streak      int64     `json:"streak" db:"streak"` // positive = win streak, negative = loss streak
	LastFightAt time.Time `json:"last_fight_at,omitempty" db:"last_fight_at"`
}

// PvPMatch is an append-only combat record. Winner and loser are zero on a draw.
type PvPMatch struct {
	ID              int64     `json:"id" db:"id"`
	ChallengerID    int64     `json:"challenger_id" db:"challenger_id"`
	OpponentID      int64     `json:"opponent_id" db:"opponent_id"`
	WinnerID        int64     `json:"winner_id,omitempty" db:"winner_id"`
	LoserID         int64     `json:"loser_id,omitempty" db:"loser_id"`
	Bet             float64   `json:"bet" db:"bet"`
	ChallengerPower float64   `json:"challenger_power" db:"challenger_power"`
	OpponentPower   float64   `json:"opponent_power" db:"opponent_power"`
	Outcome         string    `json:"outcome" db:"outcome"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Achievement represents an earned badge. At most one row exists per
// (player, achievement type) pair.
type Achievement struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Type        string    `json:"achievement_type" db:"achievement_type"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	EarnedAt    time.Time `json:"earned_at" db:"earned_at"`
}

// PlayerRank is a leaderboard row
type PlayerRank struct {
	Rank      int     `json:"rank"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	Balance   float64 `json:"balance"`
	Level     int64   `json:"level"`
}

// PvPRank is a combat leaderboard row
type PvPRank struct {
	Rank      int     `json:"rank"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	Rating    float64 `json:"rating"`
	Wins      int64   `json:"wins"`
	Losses    int64   `json:"losses"`
}
