package service

import (
	"fmt"

	"tycoonbot/internal/game"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// LoanService handles credit checks, issuance and repayment
type LoanService struct{}

// NewLoanService creates a new loan service
func NewLoanService() *LoanService {
	return &LoanService{}
}

// Eligibility scores the player and checks the requested amount against the
// max-loan rule. Returns ErrIneligible with the computed reason on refusal.
func (s *LoanService) Eligibility(userID int64, amount float64) (game.LoanOffer, error) {
	player, err := storage.GetPlayer(userID)
	if err != nil {
		return game.LoanOffer{}, err
	}
	if player == nil {
		return game.LoanOffer{}, fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}

	offer, denial := game.CheckLoanEligibility(player, amount)
	if denial != nil {
		return game.LoanOffer{}, fmt.Errorf("%w: %s (score %d, max %.0f)",
			ErrIneligible, denial.Reason, denial.CreditScore, denial.MaxAmount)
	}
	return offer, nil
}

// IssuedLoan is the result of a successful issuance. TotalInterest is
// disclosed to the player but not added to the repayable balance.
type IssuedLoan struct {
	LoanID        int64   `json:"loan_id"`
	Amount        float64 `json:"amount"`
	InterestRate  float64 `json:"interest_rate"`
	TermDays      int64   `json:"term_days"`
	TotalInterest float64 `json:"total_interest"`
}

// Issue re-validates eligibility, creates the loan and credits the principal
// through the ledger.
func (s *LoanService) Issue(userID int64, amount float64, termDays int64) (*IssuedLoan, error) {
	if amount <= 0 || termDays <= 0 {
		return nil, fmt.Errorf("%w: amount and term must be positive", ErrValidation)
	}

	offer, err := s.Eligibility(userID, amount)
	if err != nil {
		return nil, err
	}

	loanID, err := storage.CreateLoan(userID, amount, offer.InterestRate, termDays)
	if err != nil {
		return nil, err
	}
	if err := storage.ApplyDelta(userID, 0, amount, storage.TxLoan, fmt.Sprintf("Loan #%d", loanID)); err != nil {
		return nil, err
	}

	logger.Debug(userID, "loan_issued", fmt.Sprintf("loan_id=%d amount=%.0f rate=%.2f term=%d", loanID, amount, offer.InterestRate, termDays))
	return &IssuedLoan{
		LoanID:        loanID,
		Amount:        amount,
		InterestRate:  offer.InterestRate,
		TermDays:      termDays,
		TotalInterest: game.LoanInterest(amount, offer.InterestRate, termDays),
	}, nil
}

// Repay pays down an active loan. The amount is clamped to the remaining
// balance, the clamped figure is debited through the ledger, and the loan
// closes when remaining hits zero. A foreign or non-active loan is ErrNotFound.
func (s *LoanService) Repay(userID, loanID int64, amount float64) (paid, remaining float64, err error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("%w: repay amount must be positive", ErrValidation)
	}

	player, err := storage.GetPlayer(userID)
	if err != nil {
		return 0, 0, err
	}
	if player == nil {
		return 0, 0, fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}

	paid, found, err := storage.RepayLoan(userID, loanID, amount)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, fmt.Errorf("%w: loan %d", ErrNotFound, loanID)
	}
	if paid > 0 {
		if err := storage.ApplyDelta(userID, 0, -paid, storage.TxLoanRepay, fmt.Sprintf("Repayment on loan #%d", loanID)); err != nil {
			return 0, 0, err
		}
	}

	loan, err := storage.GetLoan(userID, loanID)
	if err != nil {
		return 0, 0, err
	}
	if loan != nil {
		remaining = loan.Remaining
	}

	logger.Debug(userID, "loan_repaid", fmt.Sprintf("loan_id=%d paid=%.0f remaining=%.0f", loanID, paid, remaining))
	return paid, remaining, nil
}

// ActiveLoans lists a player's open loans
func (s *LoanService) ActiveLoans(userID int64) ([]storage.Loan, error) {
	return storage.GetActiveLoans(userID)
}
