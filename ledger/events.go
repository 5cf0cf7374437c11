package ledger

import (
	"strconv"
	"strings"
	"time"
)

const (
	EventExpenseRecorded  = "expense.recorded"
	EventExpenseRejected  = "expense.rejected"
	EventSummaryComputed  = "summary.computed"
	EventInvalidReference = "balance.invalid_reference"
)

type ExpenseRecordedEvent struct {
	ExpenseID    string    `json:"expense_id"`
	PaidBy       string    `json:"paid_by"`
	TotalAmount  string    `json:"total_amount"`
	ShareAmount  string    `json:"share_amount"`
	Description  string    `json:"description"`
	Participants []string  `json:"participants"`
	Date         time.Time `json:"date"`
}

func NewExpenseRecordedEvent(e Expense) ExpenseRecordedEvent {
	return ExpenseRecordedEvent{
		ExpenseID:    e.ID.String(),
		PaidBy:       e.PaidBy,
		TotalAmount:  e.TotalAmount.String(),
		ShareAmount:  e.ShareAmount.String(),
		Description:  e.Description,
		Participants: e.Participants,
		Date:         e.Date,
	}
}

// SummaryComputedData flattens a summary into event data.
func SummaryComputedData(expenseCount int, summary []SummaryEntry) map[string]string {
	unsettled := make([]string, 0, len(summary))
	for _, s := range summary {
		unsettled = append(unsettled, s.UserID)
	}
	return map[string]string{
		"expenses":  strconv.Itoa(expenseCount),
		"unsettled": strings.Join(unsettled, ","),
	}
}
