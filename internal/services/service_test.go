package services

import (
	"context"
	"errors"
	"testing"

	"github.com/washboardhq/washboard/internal/testutil"
	"github.com/washboardhq/washboard/pkg/models"
)

func newServiceRepo(t *testing.T) *SQLiteServiceRepository {
	t.Helper()
	repo, err := NewSQLiteServiceRepository(context.Background(), testutil.NewStore(t))
	if err != nil {
		t.Fatalf("NewSQLiteServiceRepository() error = %v", err)
	}
	return repo
}

func TestServiceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newServiceRepo(t)

	service := &models.Service{Name: "Dry Cleaning", Price: 8.5, Unit: models.UnitItem, Active: true}
	if err := repo.Create(ctx, service); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if service.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	got, err := repo.Get(ctx, service.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Dry Cleaning" || got.Price != 8.5 || got.Unit != models.UnitItem || !got.Active {
		t.Errorf("Get() = %+v, want the created service", got)
	}
}

func TestServiceListOrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := newServiceRepo(t)

	for _, name := range []string{"Wash & Fold", "Dry Cleaning", "Ironing"} {
		s := &models.Service{Name: name, Price: 5, Unit: models.UnitKilogram, Active: true}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	services, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("List() returned %d services, want 3", len(services))
	}
	want := []string{"Dry Cleaning", "Ironing", "Wash & Fold"}
	for i, name := range want {
		if services[i].Name != name {
			t.Errorf("List()[%d] = %q, want %q", i, services[i].Name, name)
		}
	}
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newServiceRepo(t)

	service := &models.Service{Name: "Ironing", Price: 3, Unit: models.UnitItem, Active: true}
	if err := repo.Create(ctx, service); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	service.Price = 3.5
	service.Active = false
	if err := repo.Update(ctx, service); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.Get(ctx, service.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Price != 3.5 || got.Active {
		t.Errorf("Get() after update = %+v", got)
	}

	missing := *service
	missing.ID = 999
	if err := repo.Update(ctx, &missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	repo := newServiceRepo(t)

	service := &models.Service{Name: "Ironing", Price: 3, Unit: models.UnitItem, Active: true}
	if err := repo.Create(ctx, service); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, service.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, service.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
