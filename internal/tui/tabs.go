package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/dataview"
	"github.com/washboardhq/washboard/internal/views"
	"github.com/washboardhq/washboard/pkg/models"
)

const dateFormat = "2006-01-02"

// searchDebounce delays re-filtering while the user is still typing.
const searchDebounce = 300 * time.Millisecond

// refetchLimiter caps how often a tab hammers the list endpoint when the
// refresh key is held down.
func refetchLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(500*time.Millisecond), 1)
}

var statusCycle = []string{
	models.StatusAll,
	string(models.StatusPending),
	string(models.StatusInProgress),
	string(models.StatusCompleted),
	string(models.StatusPickedUp),
	string(models.StatusCancelled),
}

func transactionColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Customer", Width: 20},
		{Title: "Service", Width: 16},
		{Title: "Qty", Width: 6},
		{Title: "Total", Width: 9},
		{Title: "Status", Width: 12},
		{Title: "Created", Width: 11},
	}
}

func renderTransaction(tx models.Transaction) table.Row {
	return table.Row{
		strconv.Itoa(tx.ID),
		tx.Customer.FullName(),
		tx.Service.Name,
		fmt.Sprintf("%g", tx.Quantity),
		fmt.Sprintf("%.2f", tx.TotalPrice),
		string(tx.Status),
		tx.CreatedAt.Format(dateFormat),
	}
}

func newTransactionsTab(client *api.Client, sink *toastSink, logger *zap.Logger) tab {
	return &entityTab[models.Transaction]{
		title: "Transactions",
		view: views.NewTransactionsView(client,
			dataview.WithNotifier[models.Transaction](sink),
			dataview.WithLogger[models.Transaction](logger),
			dataview.WithErrorMessage[models.Transaction](api.UserMessage),
			dataview.WithRateLimit[models.Transaction](refetchLimiter()),
		),
		columns:    transactionColumns(),
		sortKeys:   []string{"id", "customer", "service", "quantity", "total", "status", "created"},
		render:     renderTransaction,
		categories: statusCycle,
		debounce:   dataview.NewDebouncer(searchDebounce),
	}
}

func newServiceStatusTab(client *api.Client, sink *toastSink, logger *zap.Logger) tab {
	return &entityTab[models.Transaction]{
		title: "In Progress",
		view: views.NewServiceStatusView(client,
			dataview.WithNotifier[models.Transaction](sink),
			dataview.WithLogger[models.Transaction](logger),
			dataview.WithErrorMessage[models.Transaction](api.UserMessage),
			dataview.WithRateLimit[models.Transaction](refetchLimiter()),
		),
		columns:    transactionColumns(),
		sortKeys:   []string{"id", "customer", "service", "quantity", "total", "status", "created"},
		render:     renderTransaction,
		categories: statusCycle,
		// The view opens filtered on in_progress; start the cycle there.
		catIndex: 2,
		debounce: dataview.NewDebouncer(searchDebounce),
	}
}

func newCustomersTab(client *api.Client, sink *toastSink, logger *zap.Logger) tab {
	return &entityTab[models.Customer]{
		title: "Customers",
		view: views.NewCustomersView(client,
			dataview.WithNotifier[models.Customer](sink),
			dataview.WithLogger[models.Customer](logger),
			dataview.WithErrorMessage[models.Customer](api.UserMessage),
			dataview.WithRateLimit[models.Customer](refetchLimiter()),
		),
		columns: []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 22},
			{Title: "Phone", Width: 14},
			{Title: "Email", Width: 24},
			{Title: "Since", Width: 11},
		},
		sortKeys: []string{"id", "name", "phone", "email", "created"},
		debounce: dataview.NewDebouncer(searchDebounce),
		render: func(c models.Customer) table.Row {
			return table.Row{
				strconv.Itoa(c.ID),
				c.FullName(),
				c.Phone,
				c.Email,
				c.CreatedAt.Format(dateFormat),
			}
		},
	}
}

func newUsersTab(client *api.Client, sink *toastSink, logger *zap.Logger) tab {
	return &entityTab[models.User]{
		title: "Users",
		view: views.NewUsersView(client,
			dataview.WithNotifier[models.User](sink),
			dataview.WithLogger[models.User](logger),
			dataview.WithErrorMessage[models.User](api.UserMessage),
			dataview.WithRateLimit[models.User](refetchLimiter()),
		),
		columns: []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Username", Width: 14},
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 24},
			{Title: "Role", Width: 8},
		},
		sortKeys: []string{"id", "username", "name", "email", "role"},
		debounce: dataview.NewDebouncer(searchDebounce),
		render: func(u models.User) table.Row {
			return table.Row{
				strconv.Itoa(u.ID),
				u.Username,
				u.FullName(),
				u.Email,
				string(u.Role),
			}
		},
	}
}

func newServicesTab(client *api.Client, sink *toastSink, logger *zap.Logger) tab {
	return &entityTab[models.Service]{
		title: "Services",
		view: views.NewServicesView(client,
			dataview.WithNotifier[models.Service](sink),
			dataview.WithLogger[models.Service](logger),
			dataview.WithErrorMessage[models.Service](api.UserMessage),
			dataview.WithRateLimit[models.Service](refetchLimiter()),
		),
		columns: []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 22},
			{Title: "Price", Width: 9},
			{Title: "Unit", Width: 6},
			{Title: "Active", Width: 7},
		},
		sortKeys: []string{"id", "name", "price", "", ""},
		debounce: dataview.NewDebouncer(searchDebounce),
		render: func(s models.Service) table.Row {
			active := "no"
			if s.Active {
				active = "yes"
			}
			return table.Row{
				strconv.Itoa(s.ID),
				s.Name,
				fmt.Sprintf("%.2f", s.Price),
				string(s.Unit),
				active,
			}
		},
	}
}
