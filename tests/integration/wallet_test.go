package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func newTestRouter(t *testing.T, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool, 3*time.Second)
	walletRepo := postgres.NewWalletRepository(pool)
	idGen := postgres.NewUUIDGenerator()

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, idGen, nil, 0, zerolog.Nop())
	retrier := postgres.NewRetrier(zerolog.Nop())

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		WalletHandler: handler.NewWalletHandler(walletUC, retrier, nil),
		HealthHandler: handler.NewHealthHandler(pool, nil),
		Logger:        zerolog.Nop(),
	})
}

func TestWalletLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB)

	var walletID string

	t.Run("create wallet", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/wallets", bytes.NewBufferString(`{}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.WalletResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.ID == "" || !resp.Balance.IsZero() {
			t.Fatalf("unexpected wallet: %+v", resp)
		}

		walletID = resp.ID
	})

	t.Run("deposit then withdraw", func(t *testing.T) {
		applyOperation(t, router, walletID, "DEPOSIT", "600", http.StatusOK)

		resp := applyOperation(t, router, walletID, "WITHDRAW", "300", http.StatusOK)
		if !resp.Wallet.Balance.Equal(decimal.RequireFromString("300")) {
			t.Fatalf("expected balance 300, got %s", resp.Wallet.Balance)
		}
		if resp.Wallet.LastOperation != "WITHDRAW" {
			t.Fatalf("expected last operation WITHDRAW, got %s", resp.Wallet.LastOperation)
		}
	})

	t.Run("overdraft rejected", func(t *testing.T) {
		applyOperation(t, router, walletID, "WITHDRAW", "400", http.StatusBadRequest)

		// Balance unchanged after rejection.
		var resp dto.WalletResponse
		getWallet(t, router, walletID, &resp)
		if !resp.Balance.Equal(decimal.RequireFromString("300")) {
			t.Fatalf("expected balance 300 after rejected withdrawal, got %s", resp.Balance)
		}
	})

	t.Run("unknown operation rejected", func(t *testing.T) {
		applyOperation(t, router, walletID, "DEBIT", "10", http.StatusBadRequest)
	})

	t.Run("unknown wallet returns 404", func(t *testing.T) {
		applyOperation(t, router, testutil.GenerateID(), "DEPOSIT", "10", http.StatusNotFound)
	})

	t.Run("list wallets", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/wallets?limit=10", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.ListWalletsResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.Total != 1 || resp.Wallets[0].ID != walletID {
			t.Fatalf("unexpected listing: %+v", resp)
		}
	})
}

func applyOperation(t *testing.T, router http.Handler, walletID, kind, amount string, wantStatus int) *dto.OperationResponse {
	t.Helper()

	body := fmt.Sprintf(`{"operation_type":%q,"amount":%q}`, kind, amount)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/"+walletID+"/operation", bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if w.Code != wantStatus {
		t.Fatalf("expected %d, got %d: %s", wantStatus, w.Code, w.Body.String())
	}

	if wantStatus != http.StatusOK {
		return nil
	}

	var resp dto.OperationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return &resp
}

func getWallet(t *testing.T, router http.Handler, walletID string, out *dto.WalletResponse) {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+walletID, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
