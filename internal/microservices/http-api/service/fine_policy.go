package service

import (
	"fmt"
	"math"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/models"
)

// FinePolicy computes the fine for a loan that is overdue at now. It must be a
// pure function of the loan's due date and now.
type FinePolicy interface {
	Amount(loan *models.Loan, now time.Time) float64
}

// FlatFine charges the same fee for any overdue loan.
type FlatFine struct {
	Fee float64
}

func (f FlatFine) Amount(loan *models.Loan, now time.Time) float64 {
	if loan.OverdueBy(now) <= 0 {
		return 0
	}
	return f.Fee
}

// DailyFine charges Rate for every started day past due, capped at Max when
// Max is positive.
type DailyFine struct {
	Rate float64
	Max  float64
}

func (f DailyFine) Amount(loan *models.Loan, now time.Time) float64 {
	overdue := loan.OverdueBy(now)
	if overdue <= 0 {
		return 0
	}
	days := math.Ceil(overdue.Hours() / 24)
	amount := days * f.Rate
	if f.Max > 0 && amount > f.Max {
		amount = f.Max
	}
	return amount
}

// NewFinePolicy builds the policy selected in the configuration.
func NewFinePolicy(cfg *config.Config) (FinePolicy, error) {
	switch cfg.FinePolicy {
	case config.FinePolicyFlat, "":
		return FlatFine{Fee: cfg.FineFlatAmount}, nil
	case config.FinePolicyDaily:
		return DailyFine{Rate: cfg.FineDailyRate, Max: cfg.FineMaxAmount}, nil
	}
	return nil, fmt.Errorf("unknown fine policy %q", cfg.FinePolicy)
}
