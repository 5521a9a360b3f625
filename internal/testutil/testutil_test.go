package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/washboardhq/washboard/pkg/models"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestClock_Set(t *testing.T) {
	c := NewClock()
	target := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Errorf("Set: got %v, want %v", c.Now(), target)
	}
}

func TestNewTransaction_Defaults(t *testing.T) {
	tx := NewTransaction()
	if tx.ID != 1 {
		t.Errorf("ID = %d, want 1", tx.ID)
	}
	if tx.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", tx.Status)
	}
	if tx.Customer.FullName() != "Jane Doe" {
		t.Errorf("Customer.FullName() = %q, want Jane Doe", tx.Customer.FullName())
	}
	if tx.TotalPrice != 10.0 {
		t.Errorf("TotalPrice = %v, want 10.0", tx.TotalPrice)
	}
}

func TestNewTransaction_WithOptions(t *testing.T) {
	tx := NewTransaction(
		WithTransactionID(7),
		WithStatus(models.StatusCompleted),
		WithCustomer(NewCustomer(WithCustomerName("Alice", "Smith"))),
	)
	if tx.ID != 7 {
		t.Errorf("ID = %d, want 7", tx.ID)
	}
	if tx.Status != models.StatusCompleted {
		t.Errorf("Status = %q, want completed", tx.Status)
	}
	if tx.Customer.FullName() != "Alice Smith" {
		t.Errorf("Customer.FullName() = %q, want Alice Smith", tx.Customer.FullName())
	}
}

func TestNewUser_WithOptions(t *testing.T) {
	u := NewUser(WithUserID(3), WithUsername("admin"), WithRole(models.RoleAdmin))
	if u.ID != 3 || u.Username != "admin" || u.Role != models.RoleAdmin {
		t.Errorf("unexpected user fixture: %+v", u)
	}
}
