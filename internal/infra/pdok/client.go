// Package pdok implements the report API of the Kadaster/PDOK registry.
package pdok

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Request constants.
const (
	UserAgent  = "JOSM"
	APIVersion = "1.0.0"
	dateLayout = "2006-01-02"

	// validationDate selects an empty data set for key validation.
	validationDate = "1000-01-01"

	maxBodySize = 32 << 20
)

// Ensure Client implements domain.ReportAPI.
var _ domain.ReportAPI = (*Client)(nil)

// Client talks to the report API over HTTP. Its settings are fixed at
// construction; a configuration change builds a new Client.
// Fields are ordered to minimize memory padding.
type Client struct {
	http   *http.Client
	clock  domain.Clock
	logger domain.Logger
	api    domain.APIConfig
	user   domain.UserConfig
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock sets the clock used for the as-of date.
func WithClock(clock domain.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l domain.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client. With api.DebugProxy set and no explicit HTTP
// client, requests go through the local debugging proxy.
func NewClient(api domain.APIConfig, user domain.UserConfig, opts ...Option) *Client {
	c := &Client{
		api:   api,
		user:  user,
		clock: domain.RealClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newHTTPClient(api.DebugProxy)
	}
	return c
}

func newHTTPClient(debugProxy bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if debugProxy {
		if u, err := url.Parse(domain.DefaultDebugProxyAddress); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Transport: transport, Timeout: time.Minute}
}

func (c *Client) infof(format string, args ...any) {
	if c.logger != nil {
		c.logger.Info("pdok", fmt.Sprintf(format, args...))
	}
}

func (c *Client) errorf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Error("pdok", fmt.Sprintf(format, args...))
	}
}

// DownloadURL returns the download URL for bounds.
func DownloadURL(base string, bounds domain.Bounds, asOf time.Time) string {
	q := url.Values{}
	q.Set("as-of-date", asOf.Format(dateLayout))
	q.Set("registry-type", domain.DefaultRegistry)
	q.Set("status-codes", domain.WireStatusCodes())
	q.Set("bbox", bounds.String())
	return base + "?" + q.Encode()
}

func validationURL(base string) string {
	q := url.Values{}
	q.Set("as-of-date", validationDate)
	q.Set("registry-type", domain.DefaultRegistry)
	q.Set("status-codes", domain.WireStatusCodes())
	return base + "?" + q.Encode()
}

// FetchReports downloads the confirmed reports inside bounds.
func (c *Client) FetchReports(ctx context.Context, bounds domain.Bounds) ([]*domain.Report, error) {
	api := c.api
	key, ok := api.Credential()
	if !ok {
		return nil, domain.ErrAPIKeyNotSet
	}

	target := DownloadURL(api.BaseURL(api.Use), bounds, c.clock.Now())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("API-Version", APIVersion)
	if api.Use.NeedsKey() {
		req.Header.Set("apikey", key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.infof("GET %s -> %d", target, resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d %s", domain.ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return DecodeReports(body)
}

// Submit uploads a pending report as a multipart request.
func (c *Client) Submit(ctx context.Context, report *domain.Report) (*domain.SubmitResult, error) {
	api, user := c.api, c.user
	key, ok := api.Credential()
	if !ok {
		return nil, domain.ErrAPIKeyNotSet
	}

	payload, err := EncodeNewReport(report, user)
	if err != nil {
		return nil, err
	}
	body, contentType, err := multipartBody(payload)
	if err != nil {
		return nil, err
	}

	target := api.BaseURL(api.Use)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Crs", CRS4326)
	req.Header.Set("User-Agent", UserAgent)
	if api.Use.NeedsKey() {
		req.Header.Set("apikey", key)
	}
	c.infof("sending report to %s: %s", target, payload)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		number, err := decodeSubmitResponse(respBody)
		if err != nil {
			return nil, err
		}
		return &domain.SubmitResult{Reference: number, Status: resp.StatusCode}, nil
	case http.StatusCreated:
		ref := resp.Header.Get("Location")
		if ref == "" {
			if number, err := decodeSubmitResponse(respBody); err == nil {
				ref = number
			}
		}
		return &domain.SubmitResult{Reference: ref, Status: resp.StatusCode}, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		rejected := decodeErrorResponse(respBody)
		return nil, &domain.SubmitRejectedError{
			Status:  resp.StatusCode,
			Message: http.StatusText(resp.StatusCode),
			Reasons: rejected.Reasons,
		}
	default:
		c.errorf("unexpected response %d: %s", resp.StatusCode, respBody)
		return nil, fmt.Errorf("%w: %d %s", domain.ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
}

// multipartBody wraps the encoded report in the "melding" form field.
func multipartBody(payload []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="melding"`)
	h.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("write multipart field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// ValidateKey checks key against the endpoint of mode. The API answers 204
// for a valid key; 400, 401 and 403 mean the key was refused.
func (c *Client) ValidateKey(ctx context.Context, mode domain.APIMode, key string) (bool, error) {
	if key == "" {
		return false, domain.ErrAPIKeyNotSet
	}
	api := c.api
	target := validationURL(api.BaseURL(mode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("apikey", key)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("GET %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	}
	return false, fmt.Errorf("%w: %d %s", domain.ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
}
