package authnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
	"github.com/riveroslabs/merchant-console-backend/pkg/metrics"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"

	defaultTimeout         = 30 * time.Second
	maxResponseBytes int64 = 1 << 20
)

var (
	errLoginNameRequired     = errors.New("gateway api login name is required")
	errTransactionKeyMissing = errors.New("gateway transaction key is required")
	errLoggerRequired        = errors.New("gateway logger is required")
	errInvalidGatewayEnv     = fmt.Errorf("gateway environment must be %q or %q", sandboxEnv, productionEnv)
)

var apiURLs = map[string]string{
	sandboxEnv:    "https://apitest.authorize.net/xml/v1/request.api",
	productionEnv: "https://api.authorize.net/xml/v1/request.api",
}

var hostedFormBaseURLs = map[string]string{
	sandboxEnv:    "https://test.authorize.net/customer",
	productionEnv: "https://accept.authorize.net/customer",
}

// Client issues signed JSON envelopes against the gateway's single request
// endpoint. Every operation is one request/response round trip with a fixed
// timeout and no retries.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	environment string
	auth        merchantAuthentication
	logger      *logger.Logger
	metrics     *metrics.GatewayMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the environment-derived request endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(endpoint)
		if trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithMetrics wires gateway call metrics into the client.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient validates the configured credentials and environment up front.
func NewClient(cfg config.GatewayConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cfg.APILoginName)
	if name == "" {
		return nil, errLoginNameRequired
	}
	key := strings.TrimSpace(cfg.TransactionKey)
	if key == "" {
		return nil, errTransactionKeyMissing
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    apiURLs[env],
		environment: env,
		auth:        merchantAuthentication{Name: name, TransactionKey: key},
		logger:      logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// Environment reports the normalized gateway environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// HostedFormBaseURL returns the environment-specific base URL of the
// gateway's hosted payment pages.
func (c *Client) HostedFormBaseURL() string {
	if c == nil {
		return ""
	}
	return hostedFormBaseURLs[c.environment]
}

// call envelopes the request under "<operation>Request", POSTs it, locates
// the result payload, and maps the gateway's result block to an error.
func (c *Client) call(ctx context.Context, operation string, request any, out resulter) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "gateway client not configured")
	}
	ctx = c.logger.WithGatewayOp(ctx, operation)

	envelope := map[string]any{operation + "Request": request}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", operation))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", operation))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(operation)
		c.logger.Error(ctx, "gateway call failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("gateway %s call", operation))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.IncFailure(operation)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", operation))
	}
	body = stripBOM(body)

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncFailure(operation)
		err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		c.logger.Error(ctx, "gateway returned non-200", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("gateway %s call", operation))
	}

	result, err := locateResult(body, operation)
	if err != nil {
		c.metrics.IncFailure(operation)
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		c.metrics.IncFailure(operation)
		return pkgerrors.Wrap(pkgerrors.CodeMalformed, err, fmt.Sprintf("decode %s response", operation))
	}

	msgs := out.resultMessages()
	if msgs == nil {
		c.metrics.IncFailure(operation)
		return pkgerrors.New(pkgerrors.CodeMalformed, fmt.Sprintf("gateway %s response missing messages", operation))
	}
	if verr := resultError(msgs); verr != nil {
		c.metrics.IncFailure(operation)
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"gateway_code": verr.Code,
			"result_code":  msgs.ResultCode,
		}), "gateway rejected operation")
		return pkgerrors.Wrap(pkgerrors.CodeVendor, verr, verr.Message)
	}

	c.metrics.IncSuccess(operation)
	c.logger.Info(ctx, "gateway call ok")
	return nil
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	switch env {
	case sandboxEnv, productionEnv:
		return env, nil
	default:
		return "", errInvalidGatewayEnv
	}
}
