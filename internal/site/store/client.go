package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"facet/internal/site/models"
	"facet/internal/tracing"
	id "facet/pkg/domain"
	"facet/pkg/platform/circuit"
)

// Client talks to the CMS content API over HTTP. Lookups go through a circuit
// breaker so a CMS outage fails fast instead of stacking up blocked requests.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
	tracer  tracing.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-call timeout. Default is 5s.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// WithBreaker overrides the circuit breaker.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(cl *Client) {
		if b != nil {
			cl.breaker = b
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithTracer overrides the tracer.
func WithTracer(t tracing.Tracer) ClientOption {
	return func(cl *Client) {
		if t != nil {
			cl.tracer = t
		}
	}
}

// NewClient creates a content store client for the given CMS base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	cl := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		breaker: circuit.New("content-store"),
		logger:  slog.Default(),
		tracer:  tracing.Noop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cl)
		}
	}
	return cl
}

// Healthy reports whether the circuit to the CMS is closed. Used by the
// readiness probe.
func (c *Client) Healthy() error {
	if c.breaker.State() == circuit.StateOpen {
		return fmt.Errorf("content store circuit open: %w", ErrUnavailable)
	}
	return nil
}

// FindTenantByDomain queries the CMS for the active tenant claiming a hostname.
func (c *Client) FindTenantByDomain(ctx context.Context, hostname string) (*models.Tenant, error) {
	ctx, span := c.tracer.Start(ctx, "store.FindTenantByDomain",
		tracing.String("hostname", hostname))
	tenants, err := getList[models.Tenant](ctx, c, "/tenants?domain="+url.QueryEscape(hostname))
	span.End(err)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, ErrNotFound
	}
	if len(tenants) > 1 {
		// Upstream invariant violated; resolve deterministically and move on.
		c.logger.Warn("multiple active tenants claim domain",
			"hostname", hostname,
			"claimants", len(tenants),
			"chosen", tenants[0].ID.String(),
		)
	}
	return &tenants[0], nil
}

// FindTenantByID queries the CMS for an active tenant by id.
func (c *Client) FindTenantByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	ctx, span := c.tracer.Start(ctx, "store.FindTenantByID",
		tracing.String("tenant_id", tenantID.String()))
	tenant, err := getOne[models.Tenant](ctx, c, "/tenants/"+url.PathEscape(tenantID.String()))
	span.End(err)
	return tenant, err
}

// FindBaselineTenant queries the CMS for the single active baseline tenant.
func (c *Client) FindBaselineTenant(ctx context.Context) (*models.Tenant, error) {
	ctx, span := c.tracer.Start(ctx, "store.FindBaselineTenant")
	tenant, err := getOne[models.Tenant](ctx, c, "/tenants/baseline")
	span.End(err)
	return tenant, err
}

// FindDocument queries the CMS for the active document of (slot, tenantID).
// A zero tenantID selects the default-tier document.
func (c *Client) FindDocument(ctx context.Context, slot id.SlotType, tenantID id.TenantID) (*models.ContentDocument, error) {
	ctx, span := c.tracer.Start(ctx, "store.FindDocument",
		tracing.String("slot", slot.String()),
		tracing.String("tenant_id", tenantID.String()))
	path := "/documents?slot=" + url.QueryEscape(slot.String())
	if !tenantID.IsZero() {
		path += "&tenant=" + url.QueryEscape(tenantID.String())
	}
	docs, err := getList[models.ContentDocument](ctx, c, path)
	span.End(err)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	if len(docs) > 1 {
		c.logger.Warn("multiple active documents for slot",
			"slot", slot.String(),
			"tenant_id", tenantID.String(),
			"matches", len(docs),
		)
	}
	return &docs[0], nil
}

// get performs a breaker-guarded GET and decodes the body into out.
// A 404 maps to ErrNotFound; transport errors and 5xx map to ErrUnavailable.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("content store circuit open: %w", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build content store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure(err)
		return fmt.Errorf("content store request failed: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.recordSuccess()
		return ErrNotFound
	case resp.StatusCode >= 500:
		c.recordFailure(fmt.Errorf("content store returned %d", resp.StatusCode))
		return fmt.Errorf("content store returned %d: %w", resp.StatusCode, ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		c.recordSuccess()
		return fmt.Errorf("content store returned unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.recordFailure(err)
		return fmt.Errorf("decode content store response: %w", ErrUnavailable)
	}
	c.recordSuccess()
	return nil
}

func (c *Client) recordFailure(err error) {
	if opened := c.breaker.RecordFailure(); opened {
		c.logger.Error("content store circuit opened", "error", err)
	}
}

func (c *Client) recordSuccess() {
	if closed := c.breaker.RecordSuccess(); closed {
		c.logger.Info("content store circuit closed")
	}
}

func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out T
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ ContentStore = (*Client)(nil)
