// Package http expõe a API do ledger: contas, carteira, apostas e o
// gatilho administrativo de liquidação de evento.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/dto"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/service"
	"github.com/radieske/sportsbook-ledger/pkg/contracts/events"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

type Server struct {
	log *zap.Logger
	svc *service.Service
}

func NewServer(log *zap.Logger, svc *service.Service) *Server {
	return &Server{log: log, svc: svc}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", s.createAccount)                // POST
	mux.HandleFunc("/accounts/suspend", s.suspendAccount)       // POST
	mux.HandleFunc("/accounts/reactivate", s.reactivateAccount) // POST
	mux.HandleFunc("/wallet", s.getWallet)                      // GET ?accountId=...
	mux.HandleFunc("/wallet/deposit", s.deposit)                // POST
	mux.HandleFunc("/wallet/withdraw", s.withdraw)              // POST
	mux.HandleFunc("/wallet/ledger", s.getLedger)               // GET ?accountId=...
	mux.HandleFunc("/bets", s.placeBet)                         // POST
	mux.HandleFunc("/bets/", s.getBet)                          // GET /bets/{id}
	mux.HandleFunc("/events/settle", s.settleEvent)             // POST
	return mux
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	acc, err := s.svc.CreateAccount(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, accountResponse(acc))
}

func (s *Server) suspendAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SuspendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.svc.SuspendAccount(r.Context(), req.AccountID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reactivateAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SuspendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.svc.ReactivateAccount(r.Context(), req.AccountID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	acc, err := s.svc.GetAccount(r.Context(), accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, accountResponse(acc))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.AccountID == "" || req.AmountCents <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	acc, err := s.svc.Deposit(r.Context(), req.AccountID, money.FromCents(req.AmountCents))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, accountResponse(acc))
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.AccountID == "" || req.AmountCents <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	acc, err := s.svc.Withdraw(r.Context(), req.AccountID, money.FromCents(req.AmountCents))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, accountResponse(acc))
}

func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	entries, err := s.svc.Ledger(r.Context(), accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := dto.LedgerResponse{AccountID: accountID, Entries: make([]dto.LedgerEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.LedgerEntryResponse{
			EntryID:           e.ID,
			BetID:             e.BetID,
			Kind:              string(e.Kind),
			AmountCents:       e.Amount.Cents(),
			BalanceAfterCents: e.BalanceAfter.Cents(),
			PendingAfterCents: e.PendingAfter.Cents(),
			CreatedAt:         e.CreatedAt,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.AccountID == "" || req.StakeCents <= 0 || len(req.Legs) == 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	legs := make([]domain.Leg, 0, len(req.Legs))
	for _, l := range req.Legs {
		odds, err := decimal.NewFromString(l.Odds)
		if err != nil {
			http.Error(w, "invalid odds: "+l.Odds, http.StatusBadRequest)
			return
		}
		legs = append(legs, domain.Leg{EventID: l.EventID, Selection: l.Selection, Odds: odds})
	}
	var teaserPoints decimal.Decimal
	if req.TeaserPoints != "" {
		tp, err := decimal.NewFromString(req.TeaserPoints)
		if err != nil {
			http.Error(w, "invalid teaser_points", http.StatusBadRequest)
			return
		}
		teaserPoints = tp
	}

	b, err := s.svc.PlaceBet(r.Context(), service.PlaceBetInput{
		AccountID:    req.AccountID,
		Type:         domain.BetType(req.Type),
		Stake:        money.FromCents(req.StakeCents),
		Legs:         legs,
		TeaserPoints: teaserPoints,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, betResponse(b))
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Path[len("/bets/"):]
	if id == "" {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}
	b, err := s.svc.GetBet(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, betResponse(b))
}

func (s *Server) settleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SettleEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.EventID == "" || (req.WinningSelection == "" && !req.Void) {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	report, err := s.svc.SettleEvent(r.Context(), events.EventSettled{
		EventID:          req.EventID,
		WinningSelection: req.WinningSelection,
		Void:             req.Void,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, report)
}

// writeError traduz os erros sentinela do domínio para status HTTP.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrBetNotFound),
		errors.Is(err, domain.ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAccountSuspended),
		errors.Is(err, domain.ErrEventNotOpen),
		errors.Is(err, domain.ErrOddsChanged),
		errors.Is(err, domain.ErrBetSettled):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidBetType),
		errors.Is(err, domain.ErrInvalidLegCount),
		errors.Is(err, domain.ErrInvalidStake),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidOdds),
		errors.Is(err, domain.ErrInvalidTeaserPoints):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("internal error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func accountResponse(acc *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		AccountID:          acc.ID,
		Status:             string(acc.Status),
		BalanceCents:       acc.Balance.Cents(),
		PendingCents:       acc.PendingBalance.Cents(),
		TotalWinningsCents: acc.TotalWinnings.Cents(),
	}
}

func betResponse(b *domain.Bet) dto.BetResponse {
	legs := make([]dto.LegResponse, 0, len(b.Legs))
	for _, l := range b.Legs {
		legs = append(legs, dto.LegResponse{
			EventID:   l.EventID,
			Selection: l.Selection,
			Odds:      l.Odds.String(),
			Outcome:   string(l.Outcome),
		})
	}
	resp := dto.BetResponse{
		BetID:                b.ID,
		AccountID:            b.AccountID,
		Type:                 string(b.Type),
		Status:               string(b.Status),
		StakeCents:           b.Stake.Cents(),
		PotentialPayoutCents: b.PotentialPayout.Cents(),
		RealizedPayoutCents:  b.RealizedPayout.Cents(),
		Legs:                 legs,
		CreatedAt:            b.CreatedAt,
		SettledAt:            b.SettledAt,
	}
	if b.Type == domain.BetTeaser {
		resp.TeaserPoints = b.TeaserPoints.String()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
