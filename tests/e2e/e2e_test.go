//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Scenarios:
//   - client registration and login
//   - plan creation by admin
//   - reservation lifecycle: create, partial validation, full validation,
//     invoice availability
//   - financial report after sales

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sime65123/gym-project/internal/config"
	"github.com/sime65123/gym-project/internal/infra"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

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

type testEnv struct {
	server     *httptest.Server
	adminToken string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("gymzone_test"),
		tcPostgres.WithUsername("gymzone"),
		tcPostgres.WithPassword("gymzone"),
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
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), 12)
	require.NoError(t, err)
	admin := &model.User{
		Email:        "admin@e2e.test",
		FirstName:    "Admin",
		LastName:     "E2E",
		PasswordHash: string(hash),
		Role:         "ADMIN",
		Active:       true,
	}
	require.NoError(t, db.Create(admin).Error)

	gatewayCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, gatewayCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/api/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "admin1234"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, adminToken: loginBody.AccessToken}
}

func (env *testEnv) registerAndLoginClient(t *testing.T, email string) string {
	t.Helper()
	regResp := do(t, env.server, "POST", "/api/register", jsonBody(t, map[string]any{
		"email":      email,
		"first_name": "Ama",
		"last_name":  "Koffi",
		"password":   "clientpass1",
	}), "")
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	regResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/api/login",
		jsonBody(t, map[string]string{"email": email, "password": "clientpass1"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &body)
	return body.AccessToken
}

func (env *testEnv) createPlan(t *testing.T, name, price string, days int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/abonnements", jsonBody(t, map[string]any{
		"name":          name,
		"price":         price,
		"duration_days": days,
	}), env.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var plan struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &plan)
	return plan.ID
}

func TestE2E_ReservationSettlementCycle(t *testing.T) {
	env := setupTestEnv(t)
	clientToken := env.registerAndLoginClient(t, "ama@e2e.test")
	planID := env.createPlan(t, "Gold", "30000", 30)

	// Client books the plan.
	resResp := do(t, env.server, "POST", "/api/reservations", jsonBody(t, map[string]any{
		"kind":    "PLAN",
		"plan_id": planID,
	}), clientToken)
	require.Equal(t, http.StatusCreated, resResp.StatusCode)
	var reservation struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount string `json:"amount"`
	}
	decodeJSON(t, resResp, &reservation)
	assert.Equal(t, "PENDING", reservation.Status)

	// Staff records a first instalment: still pending.
	v1 := do(t, env.server, "POST", "/api/reservations/"+reservation.ID+"/valider",
		jsonBody(t, map[string]any{"montant": "10000"}), env.adminToken)
	require.Equal(t, http.StatusOK, v1.StatusCode)
	var partial struct {
		Status    string  `json:"status"`
		Remaining *string `json:"remaining"`
	}
	decodeJSON(t, v1, &partial)
	assert.Equal(t, "PENDING", partial.Status)
	require.NotNil(t, partial.Remaining)

	// Second instalment settles and confirms.
	v2 := do(t, env.server, "POST", "/api/reservations/"+reservation.ID+"/valider",
		jsonBody(t, map[string]any{"montant": "20000"}), env.adminToken)
	require.Equal(t, http.StatusOK, v2.StatusCode)
	var settled struct {
		Status     string  `json:"status"`
		InvoiceURL *string `json:"invoice_url"`
	}
	decodeJSON(t, v2, &settled)
	assert.Equal(t, "CONFIRMED", settled.Status)
	require.NotNil(t, settled.InvoiceURL)

	// Paying a settled reservation again is rejected.
	v3 := do(t, env.server, "POST", "/api/reservations/"+reservation.ID+"/valider",
		jsonBody(t, map[string]any{"montant": "500"}), env.adminToken)
	require.Equal(t, http.StatusBadRequest, v3.StatusCode)
	v3.Body.Close()
}

func TestE2E_ClientCannotValidateReservations(t *testing.T) {
	env := setupTestEnv(t)
	clientToken := env.registerAndLoginClient(t, "kwame@e2e.test")
	planID := env.createPlan(t, "Silver", "15000", 30)

	resResp := do(t, env.server, "POST", "/api/reservations", jsonBody(t, map[string]any{
		"kind":    "PLAN",
		"plan_id": planID,
	}), clientToken)
	require.Equal(t, http.StatusCreated, resResp.StatusCode)
	var reservation struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resResp, &reservation)

	// Validation is staff-only.
	v := do(t, env.server, "POST", "/api/reservations/"+reservation.ID+"/valider",
		jsonBody(t, map[string]any{"montant": "15000"}), clientToken)
	require.Equal(t, http.StatusForbidden, v.StatusCode)
	v.Body.Close()

	// The client can cancel their own pending reservation.
	c := do(t, env.server, "POST", "/api/reservations/"+reservation.ID+"/annuler", nil, clientToken)
	require.Equal(t, http.StatusOK, c.StatusCode)
	c.Body.Close()
}

func TestE2E_DirectSessionSaleAndReport(t *testing.T) {
	env := setupTestEnv(t)

	saleResp := do(t, env.server, "POST", "/api/seances/paiement-direct", jsonBody(t, map[string]any{
		"client_first_name": "Walk",
		"client_last_name":  "In",
		"date":              "2026-09-01",
		"hours":             1,
		"amount_paid":       "2000",
	}), env.adminToken)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		PaymentID string  `json:"payment_id"`
		TicketID  *string `json:"ticket_id"`
	}
	decodeJSON(t, saleResp, &sale)
	require.NotEmpty(t, sale.PaymentID)
	require.NotNil(t, sale.TicketID)

	// The sale shows up in the payment ledger.
	listResp := do(t, env.server, "GET", "/api/paiements", nil, env.adminToken)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.GreaterOrEqual(t, list.Total, int64(1))

	// And in the financial report.
	repResp := do(t, env.server, "GET", "/api/financial-report", nil, env.adminToken)
	require.Equal(t, http.StatusOK, repResp.StatusCode)
	var report struct {
		TotalRevenue string `json:"total_revenue"`
		SessionCount int64  `json:"session_count"`
	}
	decodeJSON(t, repResp, &report)
	assert.Equal(t, int64(1), report.SessionCount)
}
