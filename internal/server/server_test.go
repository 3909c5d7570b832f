package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/coffee-shop/internal/config"
	"github.com/hongminglow/coffee-shop/internal/metrics"
	"github.com/hongminglow/coffee-shop/internal/storage/file"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t       *testing.T
	ts      *httptest.Server
	path    string
	metrics *metrics.Metrics
}

func newTestAPI(t *testing.T, opts ...file.Option) *testAPI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.txt")
	cfg := config.Config{
		Port:          "0",
		StoreDriver:   config.DriverFile,
		UserFile:      path,
		StoreCapacity: 10,
		JWTSecret:     "test-secret",
		JWTIssuer:     "coffee-shop",
		JWTTTLMinutes: 5,
		CORSOrigins:   "*",
	}
	m := metrics.New()
	ts := httptest.NewServer(NewRouter(cfg, file.NewUserStore(path, opts...), m, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return &testAPI{t: t, ts: ts, path: path, metrics: m}
}

func (a *testAPI) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.ts.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (a *testAPI) register(name, phone, password, role string) int64 {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/register", "", map[string]string{
		"name": name, "phone": phone, "password": password, "role": role,
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func (a *testAPI) login(id int64, password, role string) (int, string) {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/login", "", map[string]any{
		"id": id, "password": password, "role": role,
	})
	if status != http.StatusOK {
		return status, ""
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	assert.Equal(a.t, id, out.User.ID)
	assert.NotContains(a.t, string(env.Data), `"password"`)
	return status, out.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, int64(1), api.register("Alice", "12345", "pw1", "customer"))
	assert.Equal(t, int64(2), api.register("Bob", "67890", "mgrpw", "manager"))

	status, customerToken := api.login(1, "pw1", "customer")
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, customerToken)

	status, env := api.do(http.MethodPost, "/login", "", map[string]any{"id": 1, "password": "wrong", "role": "customer"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", env.Error)
	status, _ = api.login(2, "mgrpw", "customer")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = api.login(999, "pw1", "customer")
	assert.Equal(t, http.StatusUnauthorized, status)

	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Logins.WithLabelValues("Customer", "wrong_password")))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Logins.WithLabelValues("Customer", "role_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Logins.WithLabelValues("Customer", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Registrations.WithLabelValues("Manager", metrics.OutcomeSuccess)))

	raw, err := os.ReadFile(api.path)
	require.NoError(t, err)
	assert.Equal(t, "1,Alice,pw1,12345,0.00,0\n2,Bob,mgrpw,67890,0.00,1\n", string(raw))
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.register("Alice", "12345", "pw1", "customer")
	api.register("Bob", "67890", "mgrpw", "manager")
	_, customer := api.login(1, "pw1", "customer")
	_, manager := api.login(2, "mgrpw", "manager")

	status, _ := api.do(http.MethodGet, "/users/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := api.do(http.MethodGet, "/users/1", customer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"name":"Alice"`)

	status, _ = api.do(http.MethodGet, "/users/2", customer, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodGet, "/users/999", manager, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPut, "/users/1/balance", customer, map[string]any{"balance": 10})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodPut, "/users/1/balance", manager, map[string]any{"balance": -1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodPut, "/users/1/balance", manager, map[string]any{"balance": 10})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"balance":10`)

	raw, err := os.ReadFile(api.path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "1,Alice,pw1,12345,10.00,0\n"))
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"phone": "1", "password": "pw", "role": "customer"}},
		{"comma", map[string]string{"name": "A,B", "phone": "1", "password": "pw", "role": "customer"}},
		{"too long", map[string]string{"name": "A", "phone": strings.Repeat("9", 15), "password": "pw", "role": "customer"}},
		{"bad role", map[string]string{"name": "A", "phone": "1", "password": "pw", "role": "barista"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := api.do(http.MethodPost, "/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "invalid_request", env.Error)
		})
	}

	_, err := os.Stat(api.path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegisterAtCapacity(t *testing.T) {
	api := newTestAPI(t, file.WithCapacity(1))
	api.register("Alice", "12345", "pw1", "customer")

	status, env := api.do(http.MethodPost, "/register", "", map[string]string{
		"name": "Bob", "phone": "67890", "password": "mgrpw", "role": "manager",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "capacity_exceeded", env.Error)
	assert.Equal(t, "user count exceeds maximum limit", env.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.Registrations.WithLabelValues("Manager", metrics.OutcomeFailure)))

	// Successful responses carry no error code.
	status, env = api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.Error)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"ok"`)

	resp, err := http.Get(fmt.Sprintf("%s/metrics", api.ts.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
