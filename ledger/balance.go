package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/billbatista/acasinha-splits/user"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOwed Status = "OWED"
	StatusOwes Status = "OWES"
)

// SettledThreshold is the largest absolute balance still treated as settled.
// It absorbs the rounding left over by uneven equal splits.
var SettledThreshold = decimal.NewFromInt(1)

var ErrInvalidReference = errors.New("invalid user reference")

// Balances maps a user id to its signed net balance.
// Positive = owed money, Negative = owes money.
type Balances map[string]decimal.Decimal

// Sum adds up every balance. For a consistent ledger it is zero.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

// SummaryEntry is one unsettled user in a Summary.
type SummaryEntry struct {
	UserID  string          `json:"user_id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
	Status  Status          `json:"status"`
}

// CalculateBalances computes net balances for every roster member from the
// full expense history. An expense naming a user outside the roster aborts
// the computation.
func CalculateBalances(roster *user.Roster, expenses []Expense) (Balances, error) {
	balances := make(Balances, roster.Len())

	// Initialize all members with 0 balance
	for _, u := range roster.Users() {
		balances[u.ID] = decimal.Zero
	}

	for _, expense := range expenses {
		if _, ok := balances[expense.PaidBy]; !ok {
			return nil, fmt.Errorf("%w: expense %s paid by %q", ErrInvalidReference, expense.ID, expense.PaidBy)
		}
		// Credit the payer with the full amount
		balances[expense.PaidBy] = balances[expense.PaidBy].Add(expense.TotalAmount)

		// Debit each participant their share, the payer included
		for _, userID := range expense.Participants {
			if _, ok := balances[userID]; !ok {
				return nil, fmt.Errorf("%w: expense %s participant %q", ErrInvalidReference, expense.ID, userID)
			}
			balances[userID] = balances[userID].Sub(expense.ShareAmount)
		}
	}

	return balances, nil
}

// Summarize drops settled users and orders the rest from largest creditor
// to largest debtor. Ties keep roster order.
func Summarize(balances Balances, roster *user.Roster) ([]SummaryEntry, error) {
	summary := make([]SummaryEntry, 0, len(balances))

	// walk the roster first so output is deterministic
	ids := make([]string, 0, len(balances))
	for _, u := range roster.Users() {
		if _, ok := balances[u.ID]; ok {
			ids = append(ids, u.ID)
		}
	}
	if len(ids) != len(balances) {
		for id := range balances {
			if !roster.Contains(id) {
				return nil, fmt.Errorf("%w: balance for %q", ErrInvalidReference, id)
			}
		}
	}

	for _, id := range ids {
		balance := balances[id]
		if balance.Abs().LessThanOrEqual(SettledThreshold) {
			continue
		}

		u, err := roster.Get(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
		}

		status := StatusOwes
		if balance.IsPositive() {
			status = StatusOwed
		}

		summary = append(summary, SummaryEntry{
			UserID:  u.ID,
			Name:    u.Name,
			Amount:  balance.Abs(),
			Balance: balance,
			Status:  status,
		})
	}

	slices.SortStableFunc(summary, func(a, b SummaryEntry) int {
		return b.Balance.Cmp(a.Balance)
	})

	return summary, nil
}
