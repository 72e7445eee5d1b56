// Package introspect verifies access tokens against the account service's
// introspection endpoint and caches resolved principals by token hash.
package introspect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/platform/logging"
	"github.com/studyipl/tournament-api/internal/platform/resilience"
	"github.com/studyipl/tournament-api/internal/usecase"
)

var errIntrospectTransient = crerr.New("account introspection transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheSize      int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	introspectURL  string
	logger         *logging.Logger
	cache          *principalCache
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		logger:         logger,
		cache:          newPrincipalCache(cfg.CacheTTL, cfg.CacheSize),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// VerifyAccessToken resolves a bearer token to a principal. Cache hits skip
// the network; concurrent misses for the same token collapse to one call.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	result, err, _ := c.flight.Do(cacheKey, func() (any, error) {
		return c.introspect(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal, ok := result.(user.Principal)
	if !ok {
		return user.Principal{}, fmt.Errorf("unexpected introspection result type %T", result)
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	if c.circuitEnabled && c.breaker.Allow() != nil {
		return user.Principal{}, fmt.Errorf("%w: introspection circuit open", usecase.ErrDependencyUnavailable)
	}

	principal, err := c.doIntrospect(ctx, token)
	if c.circuitEnabled {
		if crerr.Is(err, errIntrospectTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if crerr.Is(err, errIntrospectTransient) {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	return principal, err
}

func (c *Client) doIntrospect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, crerr.Wrapf(errIntrospectTransient, "request introspection: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, crerr.Wrapf(errIntrospectTransient, "read introspect response: %v", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return user.Principal{}, crerr.Wrapf(errIntrospectTransient, "introspection failed with status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "account introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID:      decoded.UserID,
		DisplayName: decoded.DisplayName,
		Email:       decoded.Email,
		Admin:       decoded.Admin,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool   `json:"active"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Admin       bool   `json:"admin"`
}
