// Package views composes the generic data view engine with the concrete
// dashboard pages: users, transactions, and service status. Each page gets
// a schema (search fields, categorical filter, comparator table) and a
// constructor that binds it to the API client.
package views

import (
	"strings"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/dataview"
	"github.com/washboardhq/washboard/pkg/models"
)

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// UserSchema drives the users page: text search over name, username, email,
// and phone; no categorical filter; one typed comparator per sortable column.
func UserSchema() dataview.Schema[models.User] {
	return dataview.Schema[models.User]{
		ID: func(u models.User) int { return u.ID },
		SearchFields: []func(models.User) string{
			func(u models.User) string { return u.FirstName },
			func(u models.User) string { return u.LastName },
			func(u models.User) string { return u.Username },
			func(u models.User) string { return u.Email },
			func(u models.User) string { return u.Phone },
		},
		Compare: map[string]func(a, b models.User) int{
			"id":       func(a, b models.User) int { return compareInt(a.ID, b.ID) },
			"username": func(a, b models.User) int { return compareFold(a.Username, b.Username) },
			"name":     func(a, b models.User) int { return compareFold(a.FullName(), b.FullName()) },
			"email":    func(a, b models.User) int { return compareFold(a.Email, b.Email) },
			"role":     func(a, b models.User) int { return compareFold(string(a.Role), string(b.Role)) },
			"created":  func(a, b models.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
		},
	}
}

// TransactionSchema drives the transactions and service-status pages.
// The customer column sorts on the synthesized first+last name; the
// categorical filter matches the lifecycle status.
func TransactionSchema() dataview.Schema[models.Transaction] {
	return dataview.Schema[models.Transaction]{
		ID: func(t models.Transaction) int { return t.ID },
		SearchFields: []func(models.Transaction) string{
			func(t models.Transaction) string { return t.Customer.FirstName },
			func(t models.Transaction) string { return t.Customer.LastName },
			func(t models.Transaction) string { return t.Customer.Phone },
			func(t models.Transaction) string { return t.Service.Name },
			func(t models.Transaction) string { return t.Notes },
		},
		Category: func(t models.Transaction) string { return string(t.Status) },
		Compare: map[string]func(a, b models.Transaction) int{
			"id":       func(a, b models.Transaction) int { return compareInt(a.ID, b.ID) },
			"customer": func(a, b models.Transaction) int { return compareFold(a.Customer.FullName(), b.Customer.FullName()) },
			"service":  func(a, b models.Transaction) int { return compareFold(a.Service.Name, b.Service.Name) },
			"quantity": func(a, b models.Transaction) int { return compareFloat(a.Quantity, b.Quantity) },
			"total":    func(a, b models.Transaction) int { return compareFloat(a.TotalPrice, b.TotalPrice) },
			"status":   func(a, b models.Transaction) int { return compareFold(string(a.Status), string(b.Status)) },
			"created":  func(a, b models.Transaction) int { return a.CreatedAt.Compare(b.CreatedAt) },
			"updated":  func(a, b models.Transaction) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
		},
	}
}

// CustomerSchema drives the customers page: text search over name, phone,
// email, and address.
func CustomerSchema() dataview.Schema[models.Customer] {
	return dataview.Schema[models.Customer]{
		ID: func(c models.Customer) int { return c.ID },
		SearchFields: []func(models.Customer) string{
			func(c models.Customer) string { return c.FirstName },
			func(c models.Customer) string { return c.LastName },
			func(c models.Customer) string { return c.Phone },
			func(c models.Customer) string { return c.Email },
			func(c models.Customer) string { return c.Address },
		},
		Compare: map[string]func(a, b models.Customer) int{
			"id":      func(a, b models.Customer) int { return compareInt(a.ID, b.ID) },
			"name":    func(a, b models.Customer) int { return compareFold(a.FullName(), b.FullName()) },
			"phone":   func(a, b models.Customer) int { return compareFold(a.Phone, b.Phone) },
			"email":   func(a, b models.Customer) int { return compareFold(a.Email, b.Email) },
			"created": func(a, b models.Customer) int { return a.CreatedAt.Compare(b.CreatedAt) },
		},
	}
}

// ServiceSchema drives the service catalog page.
func ServiceSchema() dataview.Schema[models.Service] {
	return dataview.Schema[models.Service]{
		ID: func(s models.Service) int { return s.ID },
		SearchFields: []func(models.Service) string{
			func(s models.Service) string { return s.Name },
			func(s models.Service) string { return string(s.Unit) },
		},
		Compare: map[string]func(a, b models.Service) int{
			"id":    func(a, b models.Service) int { return compareInt(a.ID, b.ID) },
			"name":  func(a, b models.Service) int { return compareFold(a.Name, b.Name) },
			"price": func(a, b models.Service) int { return compareFloat(a.Price, b.Price) },
		},
	}
}

// NewUsersView builds the users page view.
func NewUsersView(client *api.Client, opts ...dataview.Option[models.User]) *dataview.View[models.User] {
	return dataview.NewView(client.Users(), UserSchema(), opts...)
}

// NewTransactionsView builds the transactions page view.
func NewTransactionsView(client *api.Client, opts ...dataview.Option[models.Transaction]) *dataview.View[models.Transaction] {
	return dataview.NewView(client.Transactions(), TransactionSchema(), opts...)
}

// NewCustomersView builds the customers page view.
func NewCustomersView(client *api.Client, opts ...dataview.Option[models.Customer]) *dataview.View[models.Customer] {
	return dataview.NewView(client.Customers(), CustomerSchema(), opts...)
}

// NewServiceStatusView builds the service-status page: the same transaction
// collection, opened with the categorical filter on in-progress orders.
func NewServiceStatusView(client *api.Client, opts ...dataview.Option[models.Transaction]) *dataview.View[models.Transaction] {
	v := dataview.NewView(client.Transactions(), TransactionSchema(), opts...)
	v.SetCategory(string(models.StatusInProgress))
	return v
}

// NewServicesView builds the service catalog view.
func NewServicesView(client *api.Client, opts ...dataview.Option[models.Service]) *dataview.View[models.Service] {
	return dataview.NewView(client.Services(), ServiceSchema(), opts...)
}
