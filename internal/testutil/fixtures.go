package testutil

import (
	"time"

	"github.com/washboardhq/washboard/pkg/models"
)

// NewCustomer returns a Customer with sensible defaults, suitable for test
// fixtures. Override individual fields via options as needed.
func NewCustomer(opts ...func(*models.Customer)) models.Customer {
	c := models.Customer{
		ID:        1,
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "555-0100",
		Email:     "jane.doe@example.com",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithCustomerID sets the customer id.
func WithCustomerID(id int) func(*models.Customer) {
	return func(c *models.Customer) { c.ID = id }
}

// WithCustomerName sets the customer's first and last name.
func WithCustomerName(first, last string) func(*models.Customer) {
	return func(c *models.Customer) {
		c.FirstName = first
		c.LastName = last
	}
}

// WithPhone sets the customer phone number.
func WithPhone(phone string) func(*models.Customer) {
	return func(c *models.Customer) { c.Phone = phone }
}

// NewService returns a Service fixture. Price defaults to a wash-per-kg
// offering.
func NewService(opts ...func(*models.Service)) models.Service {
	s := models.Service{
		ID:     1,
		Name:   "Wash & Fold",
		Price:  5.0,
		Unit:   models.UnitKilogram,
		Active: true,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithServiceID sets the service id.
func WithServiceID(id int) func(*models.Service) {
	return func(s *models.Service) { s.ID = id }
}

// WithServiceName sets the service name.
func WithServiceName(name string) func(*models.Service) {
	return func(s *models.Service) { s.Name = name }
}

// WithPrice sets the service unit price.
func WithPrice(price float64) func(*models.Service) {
	return func(s *models.Service) { s.Price = price }
}

// NewTransaction returns a Transaction fixture with a nested customer and
// service, as the API serves them.
func NewTransaction(opts ...func(*models.Transaction)) models.Transaction {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tx := models.Transaction{
		ID:         1,
		Customer:   NewCustomer(),
		Service:    NewService(),
		Quantity:   2,
		TotalPrice: 10.0,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx
}

// WithTransactionID sets the transaction id.
func WithTransactionID(id int) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.ID = id }
}

// WithStatus sets the transaction lifecycle status.
func WithStatus(s models.TransactionStatus) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.Status = s }
}

// WithCustomer sets the transaction's nested customer.
func WithCustomer(c models.Customer) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.Customer = c }
}

// WithTotal sets the transaction's total price.
func WithTotal(total float64) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.TotalPrice = total }
}

// WithCreatedAt sets the transaction's creation timestamp.
func WithCreatedAt(t time.Time) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.CreatedAt = t }
}

// NewUser returns a dashboard user fixture.
func NewUser(opts ...func(*models.User)) models.User {
	u := models.User{
		ID:        1,
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Role:      models.RoleStaff,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// WithUserID sets the user id.
func WithUserID(id int) func(*models.User) {
	return func(u *models.User) { u.ID = id }
}

// WithUsername sets the username.
func WithUsername(name string) func(*models.User) {
	return func(u *models.User) { u.Username = name }
}

// WithRole sets the user role.
func WithRole(role models.Role) func(*models.User) {
	return func(u *models.User) { u.Role = role }
}
