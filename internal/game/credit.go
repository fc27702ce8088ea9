package game

import (
	"tycoonbot/internal/storage"
)

// Credit scoring constants
const (
	creditBase          = 300
	creditFloor         = 100
	CreditScoreRequired = 500
	MaxLoanLeverage     = 2.0 // a loan may not exceed twice the balance
)

// CreditScore derives a player's credit rating from level, experience,
// popularity and whether they have historically spent more than they earned.
func CreditScore(p *storage.Player) int64 {
	score := int64(creditBase)
	score += p.Level * 50

	expBonus := p.Experience / 1000
	if expBonus > 200 {
		expBonus = 200
	}
	score += expBonus

	score += int64(p.Popularity * 100)

	if p.TotalExpenses > p.TotalIncome {
		score -= 100
	}

	if score < creditFloor {
		score = creditFloor
	}
	return score
}

// InterestRate returns the daily rate tier for a credit score
func InterestRate(score int64) float64 {
	switch {
	case score >= 800:
		return 0.02
	case score >= 600:
		return 0.03
	case score >= 400:
		return 0.04
	default:
		return 0.05
	}
}

// LoanOffer is the result of an eligibility check
type LoanOffer struct {
	CreditScore  int64   `json:"credit_score"`
	MaxAmount    float64 `json:"max_amount"`
	InterestRate float64 `json:"interest_rate"`
}

// LoanDenial explains why a loan was refused
type LoanDenial struct {
	Reason      string  `json:"reason"`
	CreditScore int64   `json:"credit_score"`
	MaxAmount   float64 `json:"max_amount"`
}

// CheckLoanEligibility evaluates the max-loan rule and the credit score gate.
// A nil denial means the offer stands.
func CheckLoanEligibility(p *storage.Player, amount float64) (LoanOffer, *LoanDenial) {
	score := CreditScore(p)
	maxLoan := p.Balance * MaxLoanLeverage

	if amount > maxLoan {
		return LoanOffer{}, &LoanDenial{
			Reason:      "amount exceeds the maximum loan",
			CreditScore: score,
			MaxAmount:   maxLoan,
		}
	}
	if score < CreditScoreRequired {
		return LoanOffer{}, &LoanDenial{
			Reason:      "credit score too low",
			CreditScore: score,
			MaxAmount:   maxLoan,
		}
	}

	return LoanOffer{
		CreditScore:  score,
		MaxAmount:    maxLoan,
		InterestRate: InterestRate(score),
	}, nil
}

// LoanInterest is the disclosed total interest over the loan term. It is
// never added to the persisted remaining balance; repayment targets the
// principal only.
func LoanInterest(amount, rate float64, termDays int64) float64 {
	return amount * rate * float64(termDays)
}
