package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error)
	ApplyOperation(ctx context.Context, input usecase.ApplyOperationInput) (*domain.Wallet, error)
}

// WalletHandler handles wallet-related HTTP requests. Transient store
// failures during an operation are retried here, restarting the whole
// operation each time; retrier may be nil to disable that.
type WalletHandler struct {
	walletUC WalletService
	retrier  usecase.Retrier
	metrics  *metrics.Metrics
}

// NewWalletHandler creates a new WalletHandler. metrics may be nil.
func NewWalletHandler(walletUC WalletService, retrier usecase.Retrier, m *metrics.Metrics) *WalletHandler {
	return &WalletHandler{
		walletUC: walletUC,
		retrier:  retrier,
		metrics:  m,
	}
}

// Create creates a new wallet.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.CreateWallet(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create wallet", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.WalletsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// Get retrieves a wallet by ID.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// List lists wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	wallets, err := h.walletUC.ListWallets(r.Context(), usecase.ListWalletsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWalletsResponse{
		Wallets: dto.WalletsFromDomain(wallets),
		Total:   int64(len(wallets)),
	})
}

// ApplyOperation applies a deposit or withdrawal to a wallet.
func (h *WalletHandler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.WalletOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput(id)
	start := time.Now()

	var wallet *domain.Wallet

	apply := func() error {
		var err error
		wallet, err = h.walletUC.ApplyOperation(r.Context(), input)
		return err
	}

	var err error
	if h.retrier != nil {
		err = h.retrier.Retry(r.Context(), apply)
	} else {
		err = apply()
	}

	h.recordOperation(input, time.Since(start), err)

	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply operation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationResponse{
		Status: "OK",
		Wallet: dto.WalletFromDomain(wallet),
	})
}

func (h *WalletHandler) recordOperation(input usecase.ApplyOperationInput, elapsed time.Duration, err error) {
	if h.metrics == nil {
		return
	}

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInsufficientFunds):
		outcome = "insufficient_funds"
		h.metrics.InsufficientFunds.Inc()
	case errors.Is(err, domain.ErrTransientStore):
		outcome = "transient_error"
	default:
		outcome = "error"
	}

	kind := string(input.Kind)
	h.metrics.Operations.WithLabelValues(kind, outcome).Inc()
	h.metrics.OperationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if err == nil {
		amount, _ := input.Amount.Float64()
		h.metrics.OperationAmount.Observe(amount)
	}
}
