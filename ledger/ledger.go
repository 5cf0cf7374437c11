package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SplitType string

const (
	SplitTypeEqual SplitType = "equal"
)

// Expense is one recorded shared expense. It is never modified after Append.
type Expense struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidBy       string          `json:"paid_by"`
	Participants []string        `json:"participants"`
	SplitType    SplitType       `json:"split_type"`
	ShareAmount  decimal.Decimal `json:"share_amount"`
	Date         time.Time       `json:"date"`
}

// NewExpense holds the submitted fields of an expense before it is recorded.
type NewExpense struct {
	Description  string          `json:"description" validate:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidBy       string          `json:"paid_by" validate:"required"`
	Participants []string        `json:"participants" validate:"required,min=1,unique,dive,required"`
}

// Ledger is the append-only history of expenses for the lifetime of the process.
type Ledger struct {
	mu       sync.RWMutex
	expenses []Expense
	now      func() time.Time
}

func New() *Ledger {
	return &Ledger{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Append records an already validated expense, splitting the total equally
// among its participants.
func (l *Ledger) Append(in NewExpense) Expense {
	participants := make([]string, len(in.Participants))
	copy(participants, in.Participants)

	expense := Expense{
		ID:           uuid.New(),
		Description:  in.Description,
		TotalAmount:  in.TotalAmount,
		PaidBy:       in.PaidBy,
		Participants: participants,
		SplitType:    SplitTypeEqual,
		ShareAmount:  EqualShare(in.TotalAmount, len(participants)),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	expense.Date = l.now()
	l.expenses = append(l.expenses, expense)

	return expense
}

// Snapshot returns the expenses recorded so far, oldest first.
// The returned slice is capped so later appends never write into it.
// Callers must not modify the records.
func (l *Ledger) Snapshot() []Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.expenses[:len(l.expenses):len(l.expenses)]
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.expenses)
}

// EqualShare divides amount between n participants.
func EqualShare(amount decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(n)))
}
