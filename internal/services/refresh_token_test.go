package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/washboardhq/washboard/internal/testutil"
)

func newRefreshFixture(t *testing.T) (*SQLiteRefreshTokenRepository, int) {
	t.Helper()
	ctx := context.Background()
	st := testutil.NewStore(t)

	users, err := NewSQLiteUserRepository(ctx, st)
	if err != nil {
		t.Fatalf("NewSQLiteUserRepository() error = %v", err)
	}
	repo, err := NewSQLiteRefreshTokenRepository(ctx, st)
	if err != nil {
		t.Fatalf("NewSQLiteRefreshTokenRepository() error = %v", err)
	}

	account := testAccount("jdoe", "jdoe@example.com")
	if err := users.Create(ctx, account); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return repo, account.ID
}

func TestRefreshTokenIssueAndConsume(t *testing.T) {
	ctx := context.Background()
	repo, userID := newRefreshFixture(t)

	token, err := repo.Issue(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned an empty token")
	}

	got, err := repo.Consume(ctx, token)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if got != userID {
		t.Errorf("Consume() user = %d, want %d", got, userID)
	}
}

func TestRefreshTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	repo, userID := newRefreshFixture(t)

	token, err := repo.Issue(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := repo.Consume(ctx, token); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	if _, err := repo.Consume(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Consume(again) error = %v, want ErrNotFound", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	ctx := context.Background()
	repo, userID := newRefreshFixture(t)

	token, err := repo.Issue(ctx, userID, -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := repo.Consume(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Consume(expired) error = %v, want ErrNotFound", err)
	}
	// The expired row is burned as well.
	if _, err := repo.Consume(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Consume(expired, again) error = %v, want ErrNotFound", err)
	}
}

func TestRefreshTokenUnknown(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRefreshFixture(t)

	if _, err := repo.Consume(ctx, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Consume(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRefreshTokenRevokeUser(t *testing.T) {
	ctx := context.Background()
	repo, userID := newRefreshFixture(t)

	first, err := repo.Issue(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := repo.Issue(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := repo.RevokeUser(ctx, userID); err != nil {
		t.Fatalf("RevokeUser() error = %v", err)
	}
	for _, token := range []string{first, second} {
		if _, err := repo.Consume(ctx, token); !errors.Is(err, ErrNotFound) {
			t.Errorf("Consume(after revoke) error = %v, want ErrNotFound", err)
		}
	}
}

func TestRefreshTokenUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRefreshFixture(t)

	if _, err := repo.Issue(ctx, 999, time.Hour); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Issue(unknown user) error = %v, want ErrInvalidReference", err)
	}
}
