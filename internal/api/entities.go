package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/washboardhq/washboard/pkg/models"
)

// UsersService accesses /api/users/.
type UsersService struct {
	c *Client
}

// CreateUserInput is the payload for creating a user; it is the only call
// that carries a plaintext password.
type CreateUserInput struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone,omitempty"`
	Role      models.Role `json:"role"`
	Password  string      `json:"password"`
}

// List returns the full user collection.
func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.c.execute(ctx, http.MethodGet, "/api/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create adds a user account.
func (s *UsersService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	var created models.User
	err := s.c.execute(ctx, http.MethodPost, "/api/users/", in, &created)
	return created, err
}

// Update replaces the mutable fields of the user with the given id.
func (s *UsersService) Update(ctx context.Context, id int, record models.User) (models.User, error) {
	var updated models.User
	err := s.c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d/", id), record, &updated)
	return updated, err
}

// Delete removes the user with the given id.
func (s *UsersService) Delete(ctx context.Context, id int) error {
	return s.c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d/", id), nil, nil)
}

// CustomersService accesses /api/customers/.
type CustomersService struct {
	c *Client
}

// List returns the full customer collection.
func (s *CustomersService) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.c.execute(ctx, http.MethodGet, "/api/customers/", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Create adds a customer.
func (s *CustomersService) Create(ctx context.Context, record models.Customer) (models.Customer, error) {
	var created models.Customer
	err := s.c.execute(ctx, http.MethodPost, "/api/customers/", record, &created)
	return created, err
}

// Update replaces the mutable fields of the customer with the given id.
func (s *CustomersService) Update(ctx context.Context, id int, record models.Customer) (models.Customer, error) {
	var updated models.Customer
	err := s.c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/customers/%d/", id), record, &updated)
	return updated, err
}

// Delete removes the customer with the given id.
func (s *CustomersService) Delete(ctx context.Context, id int) error {
	return s.c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d/", id), nil, nil)
}

// TransactionsService accesses /api/transactions/.
type TransactionsService struct {
	c *Client
}

// CreateTransactionInput is the payload for recording a new order.
type CreateTransactionInput struct {
	CustomerID int                      `json:"customer_id"`
	ServiceID  int                      `json:"service_id"`
	Quantity   float64                  `json:"quantity"`
	Status     models.TransactionStatus `json:"status,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
}

// List returns the full transaction collection.
func (s *TransactionsService) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.c.execute(ctx, http.MethodGet, "/api/transactions/", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Create records a new order.
func (s *TransactionsService) Create(ctx context.Context, in CreateTransactionInput) (models.Transaction, error) {
	var created models.Transaction
	err := s.c.execute(ctx, http.MethodPost, "/api/transactions/", in, &created)
	return created, err
}

// Update replaces the mutable fields of the transaction with the given id.
func (s *TransactionsService) Update(ctx context.Context, id int, record models.Transaction) (models.Transaction, error) {
	var updated models.Transaction
	err := s.c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/transactions/%d/", id), record, &updated)
	return updated, err
}

// Delete removes the transaction with the given id.
func (s *TransactionsService) Delete(ctx context.Context, id int) error {
	return s.c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/transactions/%d/", id), nil, nil)
}

// UpdateStatus transitions a transaction through its lifecycle.
func (s *TransactionsService) UpdateStatus(ctx context.Context, id int, status models.TransactionStatus) (models.Transaction, error) {
	var updated models.Transaction
	err := s.c.execute(ctx, http.MethodPost,
		fmt.Sprintf("/api/transactions/%d/update-status/", id),
		map[string]models.TransactionStatus{"status": status}, &updated)
	return updated, err
}

// Rate submits a customer satisfaction rating (1-5 stars) for a completed
// transaction.
func (s *TransactionsService) Rate(ctx context.Context, id, stars int) error {
	return s.c.execute(ctx, http.MethodPost,
		fmt.Sprintf("/api/transactions/%d/rate/", id),
		map[string]int{"stars": stars}, nil)
}

// ServicesService accesses /api/services/.
type ServicesService struct {
	c *Client
}

// List returns the full service catalog.
func (s *ServicesService) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := s.c.execute(ctx, http.MethodGet, "/api/services/", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// Create adds a service offering.
func (s *ServicesService) Create(ctx context.Context, record models.Service) (models.Service, error) {
	var created models.Service
	err := s.c.execute(ctx, http.MethodPost, "/api/services/", record, &created)
	return created, err
}

// Update replaces the mutable fields of the service with the given id.
func (s *ServicesService) Update(ctx context.Context, id int, record models.Service) (models.Service, error) {
	var updated models.Service
	err := s.c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/services/%d/", id), record, &updated)
	return updated, err
}

// Delete removes the service with the given id.
func (s *ServicesService) Delete(ctx context.Context, id int) error {
	return s.c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/services/%d/", id), nil, nil)
}
