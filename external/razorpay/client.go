// Package razorpay is a minimal client for the payment gateway's order API
// plus the server-side checkout signature check.
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/studyipl/tournament-api/internal/platform/logging"
	"github.com/studyipl/tournament-api/internal/platform/resilience"
	"github.com/studyipl/tournament-api/internal/usecase"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

var errGatewayTransient = crerr.New("payment gateway transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	KeyID          string
	KeySecret      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	keyID          string
	keySecret      string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		keyID:          strings.TrimSpace(cfg.KeyID),
		keySecret:      strings.TrimSpace(cfg.KeySecret),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// CreateOrder opens a gateway order for the given amount in minor currency
// units.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (usecase.PaymentOrder, error) {
	if amount <= 0 {
		return usecase.PaymentOrder{}, fmt.Errorf("order amount must be greater than zero")
	}
	if currency == "" {
		currency = "INR"
	}

	if c.circuitEnabled && c.breaker.Allow() != nil {
		return usecase.PaymentOrder{}, fmt.Errorf("%w: payment gateway circuit open", usecase.ErrDependencyUnavailable)
	}

	order, err := c.doCreateOrder(ctx, amount, currency, receipt)
	if c.circuitEnabled {
		if crerr.Is(err, errGatewayTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if crerr.Is(err, errGatewayTransient) {
		return usecase.PaymentOrder{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	return order, err
}

func (c *Client) doCreateOrder(ctx context.Context, amount int64, currency, receipt string) (usecase.PaymentOrder, error) {
	payload := createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return usecase.PaymentOrder{}, fmt.Errorf("marshal create order request: %w", err)
	}
	if _, err := buf.Write(encoded); err != nil {
		return usecase.PaymentOrder{}, fmt.Errorf("buffer create order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", strings.NewReader(buf.String()))
	if err != nil {
		return usecase.PaymentOrder{}, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usecase.PaymentOrder{}, crerr.Wrapf(errGatewayTransient, "request order create: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return usecase.PaymentOrder{}, crerr.Wrapf(errGatewayTransient, "read order response: %v", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return usecase.PaymentOrder{}, crerr.Wrapf(errGatewayTransient, "order create failed with status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.WarnContext(ctx, "payment gateway order create non-200",
			"status_code", resp.StatusCode,
		)
		return usecase.PaymentOrder{}, fmt.Errorf("order create failed with status %d", resp.StatusCode)
	}

	var decoded orderResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return usecase.PaymentOrder{}, fmt.Errorf("unmarshal order response: %w", err)
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return usecase.PaymentOrder{}, fmt.Errorf("invalid order response: id is empty")
	}

	return usecase.PaymentOrder{
		ID:       decoded.ID,
		Amount:   decoded.Amount,
		Currency: decoded.Currency,
		Receipt:  decoded.Receipt,
		Status:   decoded.Status,
	}, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "orderID|paymentID" under the key secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
