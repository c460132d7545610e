// Package proxy serves the report API with the credential filled in, so that
// clients in a proxy API mode need no key of their own.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"
	"github.com/gin-gonic/gin"

	"github.com/osmnl/pdok-report/internal/domain"
)

// HealthPath answers with the proxy status instead of being forwarded.
const HealthPath = "/_proxy/health"

// Defaults for Options.
const (
	DefaultRetryDelay = 200 * time.Millisecond
	DefaultMaxDelay   = 2 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// hopHeaders are not copied between the client and upstream connections.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

// Options configures a Server.
// Fields are ordered to minimize memory padding.
type Options struct {
	HTTPClient *http.Client
	Logger     domain.Logger
	Upstream   string // Report API base URL
	Key        string // Credential added to every forwarded request
	Tries      uint   // Attempts for idempotent requests
	RetryDelay time.Duration
	MaxDelay   time.Duration
}

// Server forwards requests to the upstream report API.
type Server struct {
	upstream  *url.URL
	client    *http.Client
	logger    domain.Logger
	engine    *gin.Engine
	key       string
	forwarded atomic.Int64
	failed    atomic.Int64
	tries     uint
	delay     time.Duration
	maxDelay  time.Duration
}

// New creates a Server. The upstream must be an absolute URL and the key must not be blank.
func New(opts Options) (*Server, error) {
	u, err := url.Parse(opts.Upstream)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", opts.Upstream)
	}
	if strings.TrimSpace(opts.Key) == "" {
		return nil, domain.ErrAPIKeyNotSet
	}

	s := &Server{
		upstream: u,
		client:   opts.HTTPClient,
		logger:   opts.Logger,
		key:      opts.Key,
		tries:    opts.Tries,
		delay:    opts.RetryDelay,
		maxDelay: opts.MaxDelay,
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: time.Minute}
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.tries == 0 {
		s.tries = domain.DefaultProxyUpstreamTries
	}
	if s.delay <= 0 {
		s.delay = DefaultRetryDelay
	}
	if s.maxDelay <= 0 {
		s.maxDelay = DefaultMaxDelay
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.GET(HealthPath, s.health)
	s.engine.NoRoute(s.forward)
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Stats returns the number of forwarded and failed requests.
func (s *Server) Stats() (forwarded, failed int64) {
	return s.forwarded.Load(), s.failed.Load()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("proxy", fmt.Sprintf("listening on %s, forwarding to %s", addr, s.upstream))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown proxy: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	forwarded, failed := s.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"upstream":  s.upstream.String(),
		"forwarded": forwarded,
		"failed":    failed,
	})
}

// target joins the request path onto the upstream base path.
func (s *Server) target(r *http.Request) string {
	u := *s.upstream
	u.Path = strings.TrimSuffix(s.upstream.Path, "/") + r.URL.Path
	u.RawPath = ""
	u.RawQuery = r.URL.RawQuery
	return u.String()
}

func (s *Server) forward(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read request body"})
		return
	}
	target := s.target(c.Request)

	var resp *http.Response
	attempt := func() error {
		req, reqErr := s.newUpstreamRequest(c.Request, target, body)
		if reqErr != nil {
			return retry.Unrecoverable(reqErr)
		}
		r, doErr := s.client.Do(req)
		if doErr != nil {
			return doErr
		}
		if r.StatusCode >= http.StatusInternalServerError && idempotent(c.Request.Method) {
			_ = r.Body.Close()
			return fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, r.StatusCode)
		}
		resp = r
		return nil
	}

	tries := s.tries
	if !idempotent(c.Request.Method) {
		tries = 1
	}
	err = retry.Do(attempt,
		retry.Context(c.Request.Context()),
		retry.Attempts(tries),
		retry.Delay(s.delay),
		retry.MaxDelay(s.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("proxy", fmt.Sprintf("%s %s: retry %d: %v", c.Request.Method, c.Request.URL.Path, n+1, err))
		}),
	)
	if err != nil {
		s.failed.Add(1)
		s.logger.Error("proxy", fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	s.forwarded.Add(1)
	s.logger.Debug("proxy", fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, resp.StatusCode))

	copyHeaders(c.Writer.Header(), resp.Header)
	c.Status(resp.StatusCode)
	_, _ = io.Copy(c.Writer, resp.Body)
}

func (s *Server) newUpstreamRequest(in *http.Request, target string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(in.Context(), in.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	copyHeaders(req.Header, in.Header)
	req.Header.Set("apikey", s.key)
	return req, nil
}

func copyHeaders(dst, src http.Header) {
	for k, vs := range src {
		if isHop(k) {
			continue
		}
		dst.Del(k)
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

func isHop(header string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, header) {
			return true
		}
	}
	return false
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

type nopLogger struct{}

func (nopLogger) Debug(string, string) {}
func (nopLogger) Info(string, string)  {}
func (nopLogger) Warn(string, string)  {}
func (nopLogger) Error(string, string) {}
