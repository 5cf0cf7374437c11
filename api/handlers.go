package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/billbatista/acasinha-splits/eventlogger"
	"github.com/billbatista/acasinha-splits/ledger"
	"github.com/billbatista/acasinha-splits/metrics"
	"github.com/billbatista/acasinha-splits/middleware"
	"github.com/billbatista/acasinha-splits/user"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Options struct {
	Currency     string
	APITokenHash string
	Metrics      *metrics.Metrics
}

type expenseResponse struct {
	Expense ledger.Expense `json:"expense"`
	Message string         `json:"message"`
}

type summaryResponse struct {
	Currency string                `json:"currency"`
	Settled  bool                  `json:"settled"`
	Entries  []ledger.SummaryEntry `json:"entries"`
}

type balanceResponse struct {
	UserID  string          `json:"user_id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type handler struct {
	svc      *Service
	currency string
}

func NewRouter(svc *Service, opts Options) http.Handler {
	h := &handler{svc: svc, currency: opts.Currency}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	if opts.Metrics != nil {
		router.Use(middleware.CountRequests(opts.Metrics))
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	router.Get("/health", h.health)
	router.Get("/users", h.listUsers)
	router.Get("/expenses", h.listExpenses)
	router.Get("/balances", h.balances)
	router.Get("/summary", h.summary)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(opts.APITokenHash))
		r.Post("/expenses", h.createExpense)
	})

	return router
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	h.svc.log(nil,
		eventlogger.WithType("health_request"),
		eventlogger.WithRequestID(chimiddleware.GetReqID(r.Context())),
		eventlogger.WithData(map[string]string{
			"message":     "ok",
			"http_status": strconv.Itoa(http.StatusOK),
		}),
	)
	w.Write([]byte("ok"))
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Roster().Users())
}

func (h *handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Expenses())
}

func (h *handler) createExpense(w http.ResponseWriter, r *http.Request) {
	in, err := decodeExpense(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := h.svc.Record(in, eventlogger.WithRequestID(chimiddleware.GetReqID(r.Context())))
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("failed to record expense", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, expenseResponse{
		Expense: expense,
		Message: fmt.Sprintf("Recorded %q worth %s. Split equally among %d people, each pays %s.",
			expense.Description,
			FormatAmount(expense.TotalAmount, h.currency),
			len(expense.Participants),
			FormatAmount(expense.ShareAmount, h.currency),
		),
	})
}

func (h *handler) balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.Balances()
	if err != nil {
		computeError(w, err)
		return
	}

	out := make([]balanceResponse, 0, len(balances))
	for _, u := range h.svc.Roster().Users() {
		out = append(out, balanceResponse{UserID: u.ID, Name: u.Name, Balance: balances[u.ID]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(eventlogger.WithRequestID(chimiddleware.GetReqID(r.Context())))
	if err != nil {
		computeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Currency: h.currency,
		Settled:  len(summary) == 0,
		Entries:  summary,
	})
}

// decodeExpense accepts either a JSON body or the fields of the expense form.
func decodeExpense(r *http.Request) (ledger.NewExpense, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var in ledger.NewExpense
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return ledger.NewExpense{}, fmt.Errorf("invalid json body: %w", err)
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return ledger.NewExpense{}, errors.New("invalid form data")
	}

	// an unparseable amount is left at zero and rejected by validation
	amount, err := decimal.NewFromString(r.FormValue("total-amount"))
	if err != nil {
		amount = decimal.Zero
	}

	return ledger.NewExpense{
		Description:  r.FormValue("description"),
		TotalAmount:  amount,
		PaidBy:       r.FormValue("paid-by"),
		Participants: r.Form["participants"],
	}, nil
}

func computeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrInvalidReference) || errors.Is(err, user.ErrUnknownUser) {
		http.Error(w, "ledger references an unknown user", http.StatusInternalServerError)
		return
	}
	slog.Error("failed to compute balances", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
