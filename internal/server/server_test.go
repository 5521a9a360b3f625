package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/washboardhq/washboard/internal/services"
	"github.com/washboardhq/washboard/internal/testutil"
	"github.com/washboardhq/washboard/pkg/models"
)

const (
	testUsername = "admin"
	testPassword = "washb0ard1"
)

// newTestServer stands up the full API on an in-memory store with one
// seeded admin account.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	st := testutil.NewStore(t)
	logger := testutil.Logger()

	users, err := services.NewSQLiteUserRepository(ctx, st)
	if err != nil {
		t.Fatalf("user repository: %v", err)
	}
	customers, err := services.NewSQLiteCustomerRepository(ctx, st)
	if err != nil {
		t.Fatalf("customer repository: %v", err)
	}
	catalog, err := services.NewSQLiteServiceRepository(ctx, st)
	if err != nil {
		t.Fatalf("service repository: %v", err)
	}
	transactions, err := services.NewSQLiteTransactionRepository(ctx, st)
	if err != nil {
		t.Fatalf("transaction repository: %v", err)
	}
	refresh, err := services.NewSQLiteRefreshTokenRepository(ctx, st)
	if err != nil {
		t.Fatalf("refresh token repository: %v", err)
	}

	hash, err := HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account := &services.UserAccount{
		User: models.User{
			Username:  testUsername,
			Email:     "admin@example.com",
			FirstName: "Ada",
			LastName:  "Admin",
			Role:      models.RoleAdmin,
		},
		PasswordHash: hash,
	}
	if err := users.Create(ctx, account); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	auth := NewAuthenticator(users, refresh, []byte("test-secret"),
		15*time.Minute, time.Hour, logger)
	srv := New("127.0.0.1:0", auth, Repositories{
		Users:        users,
		Customers:    customers,
		Transactions: transactions,
		Services:     catalog,
	}, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON performs one request against the test server and returns the
// response status and decoded body bytes.
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp.StatusCode, data
}

// login authenticates the seeded admin and returns the token pair.
func login(t *testing.T, ts *httptest.Server) (access, refresh string) {
	t.Helper()
	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": testUsername, "password": testPassword})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", status, body)
	}
	var result struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return result.Access, result.Refresh
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodGet, "/api/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("health status = %d", status)
	}
	var health map[string]any
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ok" || health["service"] != "washboardd" {
		t.Errorf("health = %v", health)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": testUsername, "password": testPassword})
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	var result struct {
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
		User    models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if result.Access == "" || result.Refresh == "" {
		t.Error("login response missing tokens")
	}
	if result.User.Username != testUsername || result.User.Role != models.RoleAdmin {
		t.Errorf("login user = %+v", result.User)
	}

	status, _ = doJSON(t, ts, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": testUsername, "password": "wrong"})
	if status != http.StatusUnauthorized {
		t.Errorf("login with wrong password status = %d, want 401", status)
	}

	status, _ = doJSON(t, ts, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": "ghost", "password": "whatever1"})
	if status != http.StatusUnauthorized {
		t.Errorf("login with unknown user status = %d, want 401", status)
	}

	status, _ = doJSON(t, ts, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": testUsername})
	if status != http.StatusBadRequest {
		t.Errorf("login without password status = %d, want 400", status)
	}
}

func TestLoginRateLimited(t *testing.T) {
	ts := newTestServer(t)

	// Burn the burst allowance with cheap malformed attempts.
	var status int
	for i := 0; i < 11; i++ {
		status, _ = doJSON(t, ts, http.MethodPost, "/api/auth/login/", "",
			map[string]string{"username": testUsername})
	}
	if status != http.StatusTooManyRequests {
		t.Errorf("throttled login status = %d, want 429", status)
	}
}

func TestRefreshRotation(t *testing.T) {
	ts := newTestServer(t)
	_, refresh := login(t, ts)

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/refresh/", "",
		map[string]string{"refresh": refresh})
	if status != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", status, body)
	}
	var rotated struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(body, &rotated); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if rotated.Access == "" || rotated.Refresh == "" || rotated.Refresh == refresh {
		t.Error("refresh did not rotate the token pair")
	}

	// The consumed token is single use.
	status, _ = doJSON(t, ts, http.MethodPost, "/api/auth/refresh/", "",
		map[string]string{"refresh": refresh})
	if status != http.StatusUnauthorized {
		t.Errorf("reused refresh token status = %d, want 401", status)
	}

	// The rotated access token works.
	status, _ = doJSON(t, ts, http.MethodGet, "/api/users/", rotated.Access, nil)
	if status != http.StatusOK {
		t.Errorf("list with rotated token status = %d, want 200", status)
	}
}

func TestRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	status, _ := doJSON(t, ts, http.MethodGet, "/api/users/", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", status)
	}

	status, _ = doJSON(t, ts, http.MethodGet, "/api/users/", "not-a-token", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", status)
	}
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	access, _ := login(t, ts)

	status, body := doJSON(t, ts, http.MethodGet, "/api/auth/me/", access, nil)
	if status != http.StatusOK {
		t.Fatalf("me status = %d", status)
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if user.Username != testUsername {
		t.Errorf("me username = %q, want %q", user.Username, testUsername)
	}
}

func TestCustomerCRUD(t *testing.T) {
	ts := newTestServer(t)
	access, _ := login(t, ts)

	status, body := doJSON(t, ts, http.MethodPost, "/api/customers/", access,
		map[string]string{"first_name": "John", "last_name": "Doe", "phone": "555-0101"})
	if status != http.StatusCreated {
		t.Fatalf("create customer status = %d, body = %s", status, body)
	}
	var created models.Customer
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created customer: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created customer has no id")
	}

	status, body = doJSON(t, ts, http.MethodGet, "/api/customers/", access, nil)
	if status != http.StatusOK {
		t.Fatalf("list customers status = %d", status)
	}
	var customers []models.Customer
	if err := json.Unmarshal(body, &customers); err != nil {
		t.Fatalf("decode customer list: %v", err)
	}
	if len(customers) != 1 {
		t.Errorf("list returned %d customers, want 1", len(customers))
	}

	created.Phone = "555-0199"
	status, body = doJSON(t, ts, http.MethodPut,
		"/api/customers/"+itoa(created.ID)+"/", access, created)
	if status != http.StatusOK {
		t.Fatalf("update customer status = %d, body = %s", status, body)
	}
	var updated models.Customer
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated customer: %v", err)
	}
	if updated.Phone != "555-0199" {
		t.Errorf("update phone = %q", updated.Phone)
	}

	status, _ = doJSON(t, ts, http.MethodDelete,
		"/api/customers/"+itoa(created.ID)+"/", access, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete customer status = %d, want 204", status)
	}
	status, _ = doJSON(t, ts, http.MethodDelete,
		"/api/customers/"+itoa(created.ID)+"/", access, nil)
	if status != http.StatusNotFound {
		t.Errorf("delete missing customer status = %d, want 404", status)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	access, _ := login(t, ts)

	payload := map[string]string{
		"username":   testUsername,
		"email":      "second@example.com",
		"first_name": "Second",
		"last_name":  "Admin",
		"password":   "washb0ard2",
	}
	status, body := doJSON(t, ts, http.MethodPost, "/api/users/", access, payload)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate username status = %d, want 400", status)
	}
	var fields map[string][]string
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("decode field errors: %v", err)
	}
	if len(fields["username"]) == 0 {
		t.Errorf("field errors = %v, want a username entry", fields)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	access, _ := login(t, ts)

	_, body := doJSON(t, ts, http.MethodPost, "/api/customers/", access,
		map[string]string{"first_name": "Jane", "last_name": "Doe", "phone": "555-0100"})
	var customer models.Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		t.Fatalf("decode customer: %v", err)
	}

	_, body = doJSON(t, ts, http.MethodPost, "/api/services/", access,
		map[string]any{"name": "Wash & Fold", "price": 5.0, "unit": "kg", "active": true})
	var svc models.Service
	if err := json.Unmarshal(body, &svc); err != nil {
		t.Fatalf("decode service: %v", err)
	}

	status, body := doJSON(t, ts, http.MethodPost, "/api/transactions/", access,
		map[string]any{"customer_id": customer.ID, "service_id": svc.ID, "quantity": 3.0})
	if status != http.StatusCreated {
		t.Fatalf("create transaction status = %d, body = %s", status, body)
	}
	var tx models.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if tx.TotalPrice != 15 || tx.Status != models.StatusPending {
		t.Errorf("created transaction = %+v", tx)
	}

	status, body = doJSON(t, ts, http.MethodPost,
		"/api/transactions/"+itoa(tx.ID)+"/update-status/", access,
		map[string]string{"status": "completed"})
	if status != http.StatusOK {
		t.Fatalf("update-status status = %d, body = %s", status, body)
	}
	if err := json.Unmarshal(body, &tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if tx.Status != models.StatusCompleted {
		t.Errorf("status after update = %q, want completed", tx.Status)
	}

	status, _ = doJSON(t, ts, http.MethodPost,
		"/api/transactions/"+itoa(tx.ID)+"/update-status/", access,
		map[string]string{"status": "folded"})
	if status != http.StatusBadRequest {
		t.Errorf("invalid status update = %d, want 400", status)
	}

	status, _ = doJSON(t, ts, http.MethodPost,
		"/api/transactions/"+itoa(tx.ID)+"/rate/", access,
		map[string]int{"stars": 5})
	if status != http.StatusNoContent {
		t.Errorf("rate status = %d, want 204", status)
	}
	status, _ = doJSON(t, ts, http.MethodPost,
		"/api/transactions/"+itoa(tx.ID)+"/rate/", access,
		map[string]int{"stars": 9})
	if status != http.StatusBadRequest {
		t.Errorf("rate out of range status = %d, want 400", status)
	}

	status, _ = doJSON(t, ts, http.MethodPost, "/api/transactions/", access,
		map[string]any{"customer_id": customer.ID, "service_id": 999, "quantity": 1.0})
	if status != http.StatusBadRequest {
		t.Errorf("create with unknown service status = %d, want 400", status)
	}
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
