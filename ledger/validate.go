package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/billbatista/acasinha-splits/user"
	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyDescription     = errors.New("description can't be empty")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNoPayer              = errors.New("payer can't be empty")
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
)

// Validator checks submitted expenses before they are appended to a Ledger.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate normalizes in and reports every problem found, wrapped in
// ErrInvalidInput. Payer and participants must belong to roster.
func (v *Validator) Validate(in NewExpense, roster *user.Roster) (NewExpense, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.PaidBy = strings.TrimSpace(in.PaidBy)
	participants := make([]string, 0, len(in.Participants))
	for _, p := range in.Participants {
		participants = append(participants, strings.TrimSpace(p))
	}
	in.Participants = participants

	var errs []error
	if err := v.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, fmt.Errorf("validating expense: %w", err)
		}
		errs = append(errs, fieldErrors(verrs)...)
	}

	if !in.TotalAmount.IsPositive() {
		errs = append(errs, ErrInvalidAmount)
	}

	if in.PaidBy != "" {
		if _, err := roster.Get(in.PaidBy); err != nil {
			errs = append(errs, fmt.Errorf("payer: %w", err))
		}
	}
	for _, p := range in.Participants {
		if p == "" {
			continue
		}
		if _, err := roster.Get(p); err != nil {
			errs = append(errs, fmt.Errorf("participant: %w", err))
		}
	}

	if len(errs) > 0 {
		return in, fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return in, nil
}

func fieldErrors(verrs validator.ValidationErrors) []error {
	var errs []error
	seen := make(map[error]bool)
	add := func(err error) {
		if !seen[err] {
			seen[err] = true
			errs = append(errs, err)
		}
	}

	for _, fe := range verrs {
		switch {
		case fe.StructField() == "Description":
			add(ErrEmptyDescription)
		case fe.StructField() == "PaidBy":
			add(ErrNoPayer)
		case fe.Tag() == "unique":
			add(ErrDuplicateParticipant)
		case fe.StructField() == "Participants":
			add(ErrNoParticipants)
		default:
			// Participants[i] with an empty id
			add(user.ErrEmptyID)
		}
	}
	return errs
}
