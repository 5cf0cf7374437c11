package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/billbatista/acasinha-splits/eventlogger"
	"github.com/billbatista/acasinha-splits/ledger"
	"github.com/billbatista/acasinha-splits/metrics"
	"github.com/billbatista/acasinha-splits/user"
)

// Service records expenses and computes summaries. It owns the ledger for
// the lifetime of the process.
type Service struct {
	roster    *user.Roster
	ledger    *ledger.Ledger
	validator *ledger.Validator
	events    *eventlogger.Worker
	metrics   *metrics.Metrics
}

// NewService wires the service. events may be nil to disable the audit log.
func NewService(roster *user.Roster, l *ledger.Ledger, events *eventlogger.Worker, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		roster:    roster,
		ledger:    l,
		validator: ledger.NewValidator(),
		events:    events,
		metrics:   m,
	}
}

func (s *Service) Roster() *user.Roster {
	return s.roster
}

func (s *Service) Expenses() []ledger.Expense {
	return s.ledger.Snapshot()
}

// Record validates a submission and appends it. Nothing is appended when
// validation fails.
func (s *Service) Record(in ledger.NewExpense, opts ...eventlogger.EventOption) (ledger.Expense, error) {
	in, err := s.validator.Validate(in, s.roster)
	if err != nil {
		s.metrics.ExpensesRejected.WithLabelValues(rejectReason(err)).Inc()
		s.log(opts,
			eventlogger.WithType(ledger.EventExpenseRejected),
			eventlogger.WithData(map[string]string{"reason": err.Error()}),
		)
		return ledger.Expense{}, err
	}

	expense := s.ledger.Append(in)
	s.metrics.ExpenseRecorded(expense.TotalAmount, s.ledger.Len())
	s.log(opts,
		eventlogger.WithType(ledger.EventExpenseRecorded),
		eventlogger.WithData(ledger.NewExpenseRecordedEvent(expense)),
	)

	slog.Info("expense recorded",
		"expense_id", expense.ID,
		"paid_by", expense.PaidBy,
		"amount", expense.TotalAmount.String(),
		"participants", len(expense.Participants),
	)
	return expense, nil
}

// Balances recomputes every roster member's net balance from the full history.
func (s *Service) Balances() (ledger.Balances, error) {
	balances, err := ledger.CalculateBalances(s.roster, s.ledger.Snapshot())
	if err != nil {
		s.computeFailed(err)
		return nil, err
	}
	return balances, nil
}

// Summary returns the unsettled users, largest creditor first.
func (s *Service) Summary(opts ...eventlogger.EventOption) ([]ledger.SummaryEntry, error) {
	expenses := s.ledger.Snapshot()
	balances, err := ledger.CalculateBalances(s.roster, expenses)
	if err != nil {
		s.computeFailed(err)
		return nil, err
	}

	summary, err := ledger.Summarize(balances, s.roster)
	if err != nil {
		s.computeFailed(err)
		return nil, err
	}

	s.metrics.SummariesComputed.Inc()
	s.log(opts,
		eventlogger.WithType(ledger.EventSummaryComputed),
		eventlogger.WithData(ledger.SummaryComputedData(len(expenses), summary)),
	)
	return summary, nil
}

// Seed records the startup expenses, failing on the first invalid one.
func (s *Service) Seed(expenses []ledger.NewExpense) error {
	for i, in := range expenses {
		if _, err := s.Record(in, eventlogger.WithMetadata(map[string]string{"source": "seed"})); err != nil {
			return fmt.Errorf("seed expense %d: %w", i, err)
		}
	}
	return nil
}

func (s *Service) computeFailed(err error) {
	s.metrics.ComputeFailures.Inc()
	slog.Error("balance computation aborted", "error", err)
	s.log(nil,
		eventlogger.WithType(ledger.EventInvalidReference),
		eventlogger.WithData(map[string]string{"error": err.Error()}),
	)
}

func (s *Service) log(opts []eventlogger.EventOption, extra ...eventlogger.EventOption) {
	if s.events == nil {
		return
	}
	all := make([]eventlogger.EventOption, 0, len(opts)+len(extra))
	all = append(all, opts...)
	all = append(all, extra...)
	s.events.Log(eventlogger.NewEvent(all...))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrEmptyDescription):
		return "empty_description"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ledger.ErrNoPayer):
		return "no_payer"
	case errors.Is(err, ledger.ErrNoParticipants), errors.Is(err, user.ErrEmptyID):
		return "no_participants"
	case errors.Is(err, ledger.ErrDuplicateParticipant):
		return "duplicate_participant"
	case errors.Is(err, user.ErrUnknownUser):
		return "unknown_user"
	default:
		return "other"
	}
}
