// Package api is the typed REST client for the laundry-service backend.
// It owns transport concerns one level below the views: bearer-token
// attachment, a single silent refresh-and-retry on 401, retries on network
// errors, and mapping non-2xx bodies to typed errors.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/washboardhq/washboard/internal/auth"
	"github.com/washboardhq/washboard/internal/config"
	"github.com/washboardhq/washboard/pkg/models"
)

// expirySkew refreshes the access token slightly before it actually
// expires so in-flight requests don't race the deadline.
const expirySkew = 30 * time.Second

// Client is the REST client shared by all entity services.
type Client struct {
	http   *resty.Client
	tokens *auth.TokenStore
	logger *zap.Logger

	refreshMu sync.Mutex
}

// New creates a Client from configuration. tokens may be nil for an
// unauthenticated client (login only).
func New(cfg *config.Config, tokens *auth.TokenStore, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.GetString("api.base_url")).
		SetTimeout(cfg.GetDuration("api.timeout")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.GetInt("api.retry_count")).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	// Retry transport-level failures and 5xx only; 4xx are terminal and
	// 401 is handled by the refresh path instead.
	httpClient.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r != nil && r.StatusCode() >= http.StatusInternalServerError
	})

	return &Client{
		http:   httpClient,
		tokens: tokens,
		logger: logger,
	}
}

// Users returns the users slice of the API.
func (c *Client) Users() *UsersService { return &UsersService{c: c} }

// Customers returns the customers slice of the API.
func (c *Client) Customers() *CustomersService { return &CustomersService{c: c} }

// Transactions returns the transactions slice of the API.
func (c *Client) Transactions() *TransactionsService { return &TransactionsService{c: c} }

// Services returns the laundry-services slice of the API.
func (c *Client) Services() *ServicesService { return &ServicesService{c: c} }

// LoginResult is the response of a successful login.
type LoginResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
}

// Login exchanges credentials for a token pair, persists it, and returns
// the authenticated user.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		Post("/api/auth/login/")
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		return nil, parseAPIError(resp.StatusCode(), resp.Body())
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if c.tokens != nil {
		if err := c.tokens.Save(auth.TokenPair{Access: result.Access, Refresh: result.Refresh}); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// Me returns the profile of the currently authenticated user.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.execute(ctx, http.MethodGet, "/api/auth/me/", nil, &user)
	return user, err
}

// Logout purges the locally stored credentials.
func (c *Client) Logout() error {
	if c.tokens == nil {
		return nil
	}
	return c.tokens.Clear()
}

// execute runs one API call: attach bearer token (refreshing proactively if
// it is about to expire), send, and on a 401 perform exactly one silent
// refresh followed by one retry. If the refresh itself fails, credentials
// are purged and ErrUnauthorized is returned.
func (c *Client) execute(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && c.tokens != nil {
		stale, _ := c.tokens.Load()
		if err := c.refresh(ctx, stale.Access); err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	if resp.IsError() {
		return parseAPIError(resp.StatusCode(), resp.Body())
	}
	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if c.tokens != nil {
		pair, err := c.tokens.Load()
		if err == nil {
			if pair.AccessExpired(time.Now(), expirySkew) && pair.Refresh != "" {
				if rerr := c.refresh(ctx, pair.Access); rerr == nil {
					pair, _ = c.tokens.Load()
				}
			}
			if pair.Access != "" {
				req.SetAuthToken(pair.Access)
			}
		}
	}
	return req.Execute(method, path)
}

// refresh rotates the token pair via the refresh endpoint. Concurrent
// callers are serialized; the loser of the race reuses the fresh pair.
// stale is the access token the caller just failed with, so a rotation
// that happened while waiting for the lock is not repeated.
func (c *Client) refresh(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair, err := c.tokens.Load()
	if err != nil || pair.Refresh == "" {
		return ErrUnauthorized
	}
	// Another caller may have refreshed while we waited for the lock.
	if pair.Access != stale {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"refresh": pair.Refresh}).
		Post("/api/auth/refresh/")
	if err != nil || resp.IsError() {
		c.logger.Warn("token refresh failed, purging credentials")
		_ = c.tokens.Clear()
		return ErrUnauthorized
	}

	var rotated auth.TokenPair
	if err := json.Unmarshal(resp.Body(), &rotated); err != nil {
		_ = c.tokens.Clear()
		return ErrUnauthorized
	}
	if err := c.tokens.Save(rotated); err != nil {
		return err
	}
	c.logger.Debug("access token refreshed")
	return nil
}
