//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/config"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/router"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // owner JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("confeitaria_test"),
		tcPostgres.WithUsername("confeitaria"),
		tcPostgres.WithPassword("confeitaria"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                   8000,
		Env:                    "test",
		WorkerPoolSize:         1,
		DatabaseURL:            pgURL,
		RedisURL:               rdURL,
		SummaryCacheTTLSeconds: 1,
		JWTSecret:              "test-secret-key",
		JWTExpirationHours:     8,
		JWTRefreshHours:        24,
		PDFStoragePath:         t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("confeitaria2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Operator{
		Username:     "owner.e2e",
		DisplayName:  "Owner E2E",
		PasswordHash: string(hash),
		Role:         model.RoleOwner,
		Active:       true,
	}).Error)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	srv := httptest.NewServer(router.New(cfg, db, rdb, dispatcher, cb))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "owner.e2e", "password": "confeitaria2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, db: db, token: loginBody.AccessToken}
}

func (env *testEnv) seedProduct(t *testing.T, name, price string, stock int) string {
	t.Helper()
	p := model.Product{Name: name, Price: dec(t, price), Stock: stock, Active: true}
	require.NoError(t, env.db.Create(&p).Error)
	return p.ID.String()
}

func (env *testEnv) openRegister(t *testing.T, name string, balance float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/registers",
		jsonBody(t, map[string]any{"name": name, "opening_balance": balance}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &reg)
	return reg.ID
}

func (env *testEnv) recordSale(t *testing.T, registerID, channel, method, productID string, qty int) string {
	t.Helper()
	body := map[string]any{
		"channel":        channel,
		"payment_method": method,
		"items":          []map[string]any{{"product_id": productID, "quantity": qty}},
	}
	if registerID != "" {
		body["register_id"] = registerID
	}
	resp := do(t, env.server, "POST", "/v1/sales", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &sale)
	return sale.ID
}

type closingBody struct {
	ID                string  `json:"id"`
	TotalSales        string  `json:"total_sales"`
	TotalTransactions int     `json:"total_transactions"`
	ExpectedCash      string  `json:"expected_cash"`
	CountedCash       *string `json:"counted_cash"`
	CashDifference    *string `json:"cash_difference"`
	Details           []struct {
		PaymentMethod    string `json:"payment_method"`
		Total            string `json:"total"`
		TransactionCount int    `json:"transaction_count"`
	} `json:"details"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Open with a 50 float, sell 20 cash + 15 card + 10 cash (unit price 5),
// count 85 at close: expected 80, surplus 5.
func TestE2E_FullReconciliationCycle(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.seedProduct(t, "Brigadeiro", "5.00", 100)
	regID := env.openRegister(t, "till-1", 50)

	env.recordSale(t, regID, "till-1", "cash", productID, 4)
	env.recordSale(t, regID, "till-1", "credit-card", productID, 3)
	env.recordSale(t, regID, "till-1", "cash", productID, 2)

	// Live summary before close
	sumResp := do(t, env.server, "GET", "/v1/registers/"+regID+"/summary", nil, env.token)
	require.Equal(t, http.StatusOK, sumResp.StatusCode)
	var summary struct {
		TotalSales   string `json:"total_sales"`
		TotalCount   int    `json:"total_count"`
		ExpectedCash string `json:"expected_cash"`
	}
	decodeJSON(t, sumResp, &summary)
	assert.True(t, dec(t, summary.TotalSales).Equal(dec(t, "45")))
	assert.Equal(t, 3, summary.TotalCount)
	assert.True(t, dec(t, summary.ExpectedCash).Equal(dec(t, "80")))

	// Close with a counted drawer of 85
	closeResp := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{"counted_cash": 85}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closing closingBody
	decodeJSON(t, closeResp, &closing)

	assert.True(t, dec(t, closing.TotalSales).Equal(dec(t, "45")))
	assert.Equal(t, 3, closing.TotalTransactions)
	assert.True(t, dec(t, closing.ExpectedCash).Equal(dec(t, "80")))
	require.NotNil(t, closing.CashDifference)
	assert.True(t, dec(t, *closing.CashDifference).Equal(dec(t, "5")))

	require.Len(t, closing.Details, 2)
	byMethod := make(map[string]string)
	counts := make(map[string]int)
	for _, d := range closing.Details {
		byMethod[d.PaymentMethod] = d.Total
		counts[d.PaymentMethod] = d.TransactionCount
	}
	assert.True(t, dec(t, byMethod["cash"]).Equal(dec(t, "30")))
	assert.Equal(t, 2, counts["cash"])
	assert.True(t, dec(t, byMethod["credit-card"]).Equal(dec(t, "15")))
	assert.Equal(t, 1, counts["credit-card"])

	// The closing is listed in the archive
	listResp := do(t, env.server, "GET", "/v1/closings?date_filter=today", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var archived []struct {
		RegisterName string `json:"register_name"`
	}
	decodeJSON(t, listResp, &archived)
	require.Len(t, archived, 1)
	assert.Equal(t, "till-1", archived[0].RegisterName)
}

func TestE2E_CloseWithoutCount(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.seedProduct(t, "Pao de queijo", "2.50", 50)
	regID := env.openRegister(t, "till-2", 30)
	env.recordSale(t, regID, "till-2", "pix", productID, 4)

	closeResp := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closing closingBody
	decodeJSON(t, closeResp, &closing)

	assert.True(t, dec(t, closing.TotalSales).Equal(dec(t, "10")))
	assert.Nil(t, closing.CountedCash)
	assert.Nil(t, closing.CashDifference)
	// Pix never touches the drawer: expected cash is just the float.
	assert.True(t, dec(t, closing.ExpectedCash).Equal(dec(t, "30")))
}

func TestE2E_DuplicateOpenRejected(t *testing.T) {
	env := setupTestEnv(t)
	env.openRegister(t, "till-1", 50)

	resp := do(t, env.server, "POST", "/v1/registers",
		jsonBody(t, map[string]any{"name": "till-1", "opening_balance": 100}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestE2E_DoubleCloseRejected(t *testing.T) {
	env := setupTestEnv(t)
	regID := env.openRegister(t, "delivery", 0)

	first := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusConflict, second.StatusCode)

	// Exactly one closing archived
	var count int64
	require.NoError(t, env.db.Model(&model.Closing{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestE2E_VoidExcludedFromClosing(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.seedProduct(t, "Bolo de cenoura", "32.00", 5)
	regID := env.openRegister(t, "till-1", 50)

	env.recordSale(t, regID, "till-1", "cash", productID, 1)
	voidID := env.recordSale(t, regID, "till-1", "cash", productID, 2)

	voidResp := do(t, env.server, "DELETE", "/v1/sales/"+voidID+"?reason=test", nil, env.token)
	require.Equal(t, http.StatusNoContent, voidResp.StatusCode)

	// Stock restored for the voided sale: 5 - 1 - 2 + 2 = 4
	var p model.Product
	require.NoError(t, env.db.First(&p, "name = ?", "Bolo de cenoura").Error)
	assert.Equal(t, 4, p.Stock)

	closeResp := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{"counted_cash": 82}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closing closingBody
	decodeJSON(t, closeResp, &closing)

	assert.True(t, dec(t, closing.TotalSales).Equal(dec(t, "32")))
	assert.Equal(t, 1, closing.TotalTransactions)
	require.NotNil(t, closing.CashDifference)
	assert.True(t, dec(t, *closing.CashDifference).IsZero())
}

func TestE2E_DigitalMenuSaleNeverReconciles(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.seedProduct(t, "Coxinha", "8.00", 30)
	regID := env.openRegister(t, "till-1", 50)

	env.recordSale(t, "", "digital-menu", "pix", productID, 2)

	closeResp := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closing closingBody
	decodeJSON(t, closeResp, &closing)

	assert.True(t, dec(t, closing.TotalSales).IsZero())
	assert.Empty(t, closing.Details)
}

// Deleting a closing removes its detail rows with it, but is an archival
// correction only: the register stays closed and the sale rows survive.
func TestE2E_DeleteClosingCascades(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.seedProduct(t, "Quindim", "6.00", 20)
	regID := env.openRegister(t, "till-1", 50)

	env.recordSale(t, regID, "till-1", "cash", productID, 2)
	env.recordSale(t, regID, "till-1", "pix", productID, 1)

	closeResp := do(t, env.server, "POST", "/v1/registers/"+regID+"/close",
		jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closing closingBody
	decodeJSON(t, closeResp, &closing)
	require.NotEmpty(t, closing.ID)
	require.Len(t, closing.Details, 2)

	delResp := do(t, env.server, "DELETE", "/v1/closings/"+closing.ID, nil, env.token)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	// Closing and all its detail rows are gone.
	var closings, details int64
	require.NoError(t, env.db.Model(&model.Closing{}).Where("id = ?", closing.ID).Count(&closings).Error)
	assert.Equal(t, int64(0), closings)
	require.NoError(t, env.db.Model(&model.ClosingDetail{}).Where("closing_id = ?", closing.ID).Count(&details).Error)
	assert.Equal(t, int64(0), details)

	// The register is untouched: still closed, closed_at preserved.
	var reg model.Register
	require.NoError(t, env.db.First(&reg, "id = ?", regID).Error)
	assert.False(t, reg.IsOpen)
	assert.NotNil(t, reg.ClosedAt)

	// The sale ledger is untouched.
	var sales int64
	require.NoError(t, env.db.Model(&model.Sale{}).Where("cash_register_id = ?", regID).Count(&sales).Error)
	assert.Equal(t, int64(2), sales)
}

func TestE2E_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/registers/open", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
