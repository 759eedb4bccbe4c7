package api

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

	"github.com/mparedes/rollbook/internal/ctxutil"
	"github.com/mparedes/rollbook/internal/metrics"
	"go.uber.org/zap"
)

// Failure classes surfaced to the user. Connectivity problems and
// authorization problems must stay distinguishable (different remedies).
var (
	ErrUnauthorized = errors.New("no autenticado: iniciá sesión nuevamente")
	ErrForbidden    = errors.New("sin permisos para este curso")
	ErrNotFound     = errors.New("el recurso no existe")
	ErrUnavailable  = errors.New("no se pudo conectar con el servidor")
)

// Client talks to the remote course store. All persistence lives on the
// server side; the client only moves records and reports errors back.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.SugaredLogger
}

func New(baseURL, token string, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// do issues one JSON request and decodes the response into out (skipped when
// out is nil). op labels the call for metrics and logs.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, body, out)
	metrics.ObserveAPI(op, err, time.Since(start))
	if err != nil {
		fields := []any{"op", op, "path", path, "err", err}
		if course, ok := ctxutil.CourseID(ctx); ok {
			fields = append(fields, "course", course)
		}
		c.log.Warnw("api call failed", fields...)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return statusErr(resp.StatusCode, path, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func statusErr(code int, path string, raw []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	msg := strings.TrimSpace(string(raw))
	// the server wraps messages as {"error": "..."}
	var wrapped struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.Error != "" {
		msg = wrapped.Error
	}
	if msg == "" {
		return fmt.Errorf("%s: http %d", path, code)
	}
	return fmt.Errorf("%s: http %d: %s", path, code, msg)
}

// Ping checks reachability for health probes. Any HTTP answer counts as
// alive; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}
