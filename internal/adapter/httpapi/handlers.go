package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/simaogato/stockfolio-backend/internal/domain"
	"github.com/simaogato/stockfolio-backend/internal/usecase/calculator"
	"github.com/simaogato/stockfolio-backend/internal/usecase/snapshotjob"
)

const dateLayout = "2006-01-02"

// --- request payloads ---

type createPortfolioRequest struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
}

type cashRequest struct {
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	OccurredAt string `json:"occurred_at,omitempty"` // RFC 3339, defaults to now
}

type tradeRequest struct {
	Ticker     string `json:"ticker"`
	Quantity   string `json:"quantity"`
	Price      string `json:"price"`
	Currency   string `json:"currency"`
	OccurredAt string `json:"occurred_at,omitempty"`
}

type priceRequest struct {
	Ticker   string `json:"ticker"`
	Date     string `json:"date"` // 2006-01-02
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

type backfillRequest struct {
	Start string `json:"start"` // 2006-01-02
	End   string `json:"end"`
}

type dailySnapshotRequest struct {
	Date string `json:"date,omitempty"` // 2006-01-02, defaults to today
}

// --- response payloads ---

type portfolioResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	CreatedAt    string `json:"created_at"`
}

type entryResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	OccurredAt string `json:"occurred_at"`
	RecordedAt string `json:"recorded_at"`
}

type holdingResponse struct {
	Ticker              string `json:"ticker"`
	Quantity            string `json:"quantity"`
	CostBasis           string `json:"cost_basis"`
	AverageCostPerShare string `json:"average_cost_per_share"`
}

type stateResponse struct {
	CashBalance string            `json:"cash_balance"`
	Currency    string            `json:"currency"`
	Holdings    []holdingResponse `json:"holdings"`
}

type snapshotResponse struct {
	PortfolioID   string `json:"portfolio_id"`
	SnapshotDate  string `json:"snapshot_date"`
	CashBalance   string `json:"cash_balance"`
	HoldingsValue string `json:"holdings_value"`
	TotalValue    string `json:"total_value"`
	HoldingsCount int    `json:"holdings_count"`
	Currency      string `json:"currency"`
}

type metricsResponse struct {
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	StartingValue  string `json:"starting_value"`
	EndingValue    string `json:"ending_value"`
	AbsoluteGain   string `json:"absolute_gain"`
	PercentageGain string `json:"percentage_gain"`
	HighestValue   string `json:"highest_value"`
	LowestValue    string `json:"lowest_value"`
	Currency       string `json:"currency"`
}

type runResultResponse struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// --- handlers ---

func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	portfolio, err := s.trading.CreatePortfolio(r.Context(), req.Name, req.BaseCurrency)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, portfolioResponse{
		ID:           portfolio.ID.String(),
		Name:         portfolio.Name,
		BaseCurrency: portfolio.BaseCurrency,
		CreatedAt:    portfolio.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleCashEntry(w, r, s.trading.Deposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleCashEntry(w, r, s.trading.Withdraw)
}

type cashCommand func(ctx context.Context, portfolioID uuid.UUID, amount domain.Money, occurredAt time.Time) (*domain.LedgerEntry, error)

type tradeCommand func(ctx context.Context, portfolioID uuid.UUID, ticker domain.Ticker, quantity domain.Quantity, price domain.Money, occurredAt time.Time) (*domain.LedgerEntry, error)

func (s *Server) handleCashEntry(w http.ResponseWriter, r *http.Request, command cashCommand) {
	portfolioID, ok := parsePortfolioID(w, r)
	if !ok {
		return
	}

	var req cashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := domain.NewMoneyFromString(req.Amount, req.Currency)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := command(r.Context(), portfolioID, amount, occurredAt)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTradeEntry(w, r, s.trading.Buy)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTradeEntry(w, r, s.trading.Sell)
}

func (s *Server) handleTradeEntry(w http.ResponseWriter, r *http.Request, command tradeCommand) {
	portfolioID, ok := parsePortfolioID(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticker, err := domain.NewTicker(req.Ticker)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	quantity, err := domain.NewQuantityFromString(req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	price, err := domain.NewMoneyFromString(req.Price, req.Currency)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := command(r.Context(), portfolioID, ticker, quantity, price, occurredAt)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := parsePortfolioID(w, r)
	if !ok {
		return
	}

	var asOf *time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "as_of must be RFC 3339")
			return
		}
		asOf = &t
	}

	state, err := s.trading.GetState(r.Context(), portfolioID, asOf)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStateResponse(state))
}

func (s *Server) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := parsePortfolioID(w, r)
	if !ok {
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshots, err := s.performance.GetSnapshots(r.Context(), portfolioID, from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]snapshotResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, toSnapshotResponse(snapshot))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := parsePortfolioID(w, r)
	if !ok {
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := s.performance.GetMetrics(r.Context(), portfolioID, from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		PeriodStart:    metrics.PeriodStart.Format(dateLayout),
		PeriodEnd:      metrics.PeriodEnd.Format(dateLayout),
		StartingValue:  metrics.StartingValue.Amount().String(),
		EndingValue:    metrics.EndingValue.Amount().String(),
		AbsoluteGain:   metrics.AbsoluteGain.Amount().String(),
		PercentageGain: metrics.PercentageGain.String(),
		HighestValue:   metrics.HighestValue.Amount().String(),
		LowestValue:    metrics.LowestValue.Amount().String(),
		Currency:       metrics.EndingValue.Currency(),
	})
}

func (s *Server) handleRecordPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticker, err := domain.NewTicker(req.Ticker)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	price, err := domain.NewMoneyFromString(req.Price, req.Currency)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	point, err := s.marketData.RecordPrice(r.Context(), ticker, date, price)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":     point.ID.String(),
		"ticker": point.Ticker.Symbol(),
		"date":   point.Date.Format(dateLayout),
	})
}

func (s *Server) handleDailySnapshot(w http.ResponseWriter, r *http.Request) {
	var req dailySnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := s.snapshotJob.RunDailySnapshot(r.Context(), date)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toRunResultResponse(result))
}

func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := parsePortfolioID(w, r)
	if !ok {
		return
	}

	var req backfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := time.Parse(dateLayout, req.Start)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.End)
	if err != nil {
		respondError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}

	result, err := s.snapshotJob.Backfill(r.Context(), portfolioID, start, end)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toRunResultResponse(result))
}

// --- helpers ---

func parsePortfolioID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid portfolio id")
		return uuid.Nil, false
	}
	return id, true
}

func parseOccurredAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("occurred_at must be RFC 3339")
	}
	return t, nil
}

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to query parameters are required")
	}
	from, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be YYYY-MM-DD")
	}
	return from, to, nil
}

func toEntryResponse(entry *domain.LedgerEntry) entryResponse {
	return entryResponse{
		ID:         entry.ID.String(),
		Type:       string(entry.Type),
		OccurredAt: entry.OccurredAt.Format(time.RFC3339),
		RecordedAt: entry.RecordedAt.Format(time.RFC3339),
	}
}

func toStateResponse(state *calculator.PortfolioState) stateResponse {
	holdings := make([]holdingResponse, 0, len(state.Holdings))
	for _, h := range state.Holdings {
		holdings = append(holdings, holdingResponse{
			Ticker:              h.Ticker.Symbol(),
			Quantity:            h.Quantity.String(),
			CostBasis:           h.CostBasis.Amount().String(),
			AverageCostPerShare: h.AverageCostPerShare.Amount().String(),
		})
	}
	return stateResponse{
		CashBalance: state.CashBalance.Amount().String(),
		Currency:    state.CashBalance.Currency(),
		Holdings:    holdings,
	}
}

func toSnapshotResponse(snapshot *domain.PortfolioSnapshot) snapshotResponse {
	return snapshotResponse{
		PortfolioID:   snapshot.PortfolioID.String(),
		SnapshotDate:  snapshot.SnapshotDate.Format(dateLayout),
		CashBalance:   snapshot.CashBalance.Amount().String(),
		HoldingsValue: snapshot.HoldingsValue.Amount().String(),
		TotalValue:    snapshot.TotalValue.Amount().String(),
		HoldingsCount: snapshot.HoldingsCount,
		Currency:      snapshot.TotalValue.Currency(),
	}
}

func toRunResultResponse(result *snapshotjob.RunResult) runResultResponse {
	return runResultResponse{
		Processed: result.Processed,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}
}
