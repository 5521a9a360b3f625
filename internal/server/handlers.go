package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/washboardhq/washboard/internal/services"
	"github.com/washboardhq/washboard/pkg/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pathID parses the {id} segment of the matched route.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil && id > 0
}

// writeRepoError maps the repository sentinel errors onto HTTP responses.
// Duplicate username/email come back as the per-field body the dashboard
// probes for conflicts.
func (s *Server) writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFound(w, "record not found", r.URL.Path)
	case errors.Is(err, services.ErrDuplicateUsername):
		WriteFieldErrors(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		WriteFieldErrors(w, http.StatusBadRequest, map[string][]string{
			"email": {"A user with that email already exists."},
		})
	case errors.Is(err, services.ErrInvalidReference):
		BadRequest(w, "referenced record does not exist", r.URL.Path)
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		InternalError(w, "request failed", r.URL.Path)
	}
}

// --- users ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.User
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		BadRequest(w, "username, email, and password are required", r.URL.Path)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	account := &services.UserAccount{User: req.User, PasswordHash: hash}
	if err := s.users.Create(r.Context(), account); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account.User)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	user.ID = id
	if err := s.users.Update(r.Context(), &user); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	updated, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.User)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- customers ---

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if customer.FirstName == "" || customer.LastName == "" {
		BadRequest(w, "first_name and last_name are required", r.URL.Path)
		return
	}
	if err := s.customers.Create(r.Context(), &customer); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	customer.ID = id
	if err := s.customers.Update(r.Context(), &customer); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	updated, err := s.customers.Get(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	if err := s.customers.Delete(r.Context(), id); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- services ---

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.services.List(r.Context())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	if catalog == nil {
		catalog = []models.Service{}
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var svc models.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if svc.Name == "" || svc.Price <= 0 {
		BadRequest(w, "name and a positive price are required", r.URL.Path)
		return
	}
	if err := s.services.Create(r.Context(), &svc); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	var svc models.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	svc.ID = id
	if err := s.services.Update(r.Context(), &svc); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	updated, err := s.services.Get(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	if err := s.services.Delete(r.Context(), id); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- transactions ---

// transactionInput is the write shape for orders: flat foreign keys in,
// nested records out.
type transactionInput struct {
	CustomerID int                      `json:"customer_id"`
	ServiceID  int                      `json:"service_id"`
	Quantity   float64                  `json:"quantity"`
	Status     models.TransactionStatus `json:"status"`
	Notes      string                   `json:"notes"`
}

func (in transactionInput) toNew() services.NewTransaction {
	return services.NewTransaction{
		CustomerID: in.CustomerID,
		ServiceID:  in.ServiceID,
		Quantity:   in.Quantity,
		Status:     in.Status,
		Notes:      in.Notes,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if in.CustomerID <= 0 || in.ServiceID <= 0 || in.Quantity <= 0 {
		BadRequest(w, "customer_id, service_id, and a positive quantity are required", r.URL.Path)
		return
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if !models.ValidTransactionStatus(in.Status) {
		BadRequest(w, "unknown status", r.URL.Path)
		return
	}

	created, err := s.transactions.Create(r.Context(), in.toNew())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	// PUT accepts either the flat write shape or a full record with nested
	// customer and service; the nested ids win when the flat keys are absent.
	var in struct {
		transactionInput
		Customer models.Customer `json:"customer"`
		Service  models.Service  `json:"service"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if in.CustomerID == 0 {
		in.CustomerID = in.Customer.ID
	}
	if in.ServiceID == 0 {
		in.ServiceID = in.Service.ID
	}
	if in.CustomerID <= 0 || in.ServiceID <= 0 || in.Quantity <= 0 {
		BadRequest(w, "customer_id, service_id, and a positive quantity are required", r.URL.Path)
		return
	}
	if !models.ValidTransactionStatus(in.Status) {
		BadRequest(w, "unknown status", r.URL.Path)
		return
	}

	updated, err := s.transactions.Update(r.Context(), id, in.toNew())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	var req struct {
		Status models.TransactionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if !models.ValidTransactionStatus(req.Status) {
		BadRequest(w, "unknown status", r.URL.Path)
		return
	}

	updated, err := s.transactions.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		BadRequest(w, "invalid id", r.URL.Path)
		return
	}
	var req struct {
		Stars int `json:"stars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if req.Stars < 1 || req.Stars > 5 {
		BadRequest(w, "stars must be between 1 and 5", r.URL.Path)
		return
	}

	if err := s.transactions.SetRating(r.Context(), id, req.Stars); err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
