// Package api is the request pipeline between the client and the novels
// service. Every outbound call goes through Client, which attaches the
// stored bearer token, unwraps response payloads and classifies failures so
// no call site deals with transport details.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/Enterzhang/novels2.0/internal/errs"
	"github.com/Enterzhang/novels2.0/internal/store"
)

// Error is the normalized pipeline failure. Kind is one of the errs
// sentinels so call sites branch with errors.Is; Message carries the
// server-supplied detail when one was available.
type Error struct {
	Kind    error
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Client is the single choke point for outbound calls.
type Client struct {
	baseURL string
	http    *http.Client
	store   store.Store
	log     *zap.Logger

	// authExpired runs after the pipeline evicts a rejected credential.
	// The composition root subscribes session teardown and the login
	// redirect here; the pipeline itself never navigates.
	authExpired func()
}

// New builds a pipeline. timeout bounds every call; exceeding it surfaces
// as ErrUnavailable, not a distinct error kind.
func New(baseURL string, timeout time.Duration, st store.Store, log *zap.Logger, onAuthExpired func()) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		store:       st,
		log:         log,
		authExpired: onAuthExpired,
	}
}

// detailBody matches the service's error envelope.
type detailBody struct {
	Detail string `json:"detail"`
}

// do sends one request and decodes the payload into out (skipped when out is
// nil). At most one attempt per logical call; no retries, ever: retrying an
// authenticated mutation without an idempotency key risks a duplicate side
// effect.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, auth bool, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &Error{Kind: errs.ErrUnavailable, Message: "bad request: " + err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		var tok string
		if ok, lerr := c.store.Load(store.KeyToken, &tok); lerr == nil && ok && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	reqID := requestID()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("http",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return &Error{Kind: errs.ErrUnavailable, Message: "service unreachable, please try again"}
	}
	defer resp.Body.Close()

	c.log.Info("http",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: errs.ErrUnavailable, Status: resp.StatusCode, Message: "malformed response body"}
		}
		return nil
	}
	return c.classify(resp)
}

// classify maps a non-2xx response onto the error taxonomy. A 401 evicts the
// stored credentials here, centrally, so no individual caller has to.
func (c *Client) classify(resp *http.Response) error {
	var db detailBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&db)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.evictCredentials()
		return &Error{Kind: errs.ErrUnauthorized, Status: resp.StatusCode, Message: orDefault(db.Detail, "session expired, please sign in again")}
	case http.StatusNotFound:
		return &Error{Kind: errs.ErrNotFound, Status: resp.StatusCode, Message: orDefault(db.Detail, "not found")}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return &Error{Kind: errs.ErrValidation, Status: resp.StatusCode, Message: orDefault(db.Detail, "invalid request")}
	default:
		return &Error{Kind: errs.ErrUnavailable, Status: resp.StatusCode, Message: orDefault(db.Detail, "service error, please try again")}
	}
}

func (c *Client) evictCredentials() {
	if err := c.store.Delete(store.KeyToken); err != nil {
		c.log.Warn("evict token", zap.Error(err))
	}
	if err := c.store.Delete(store.KeyUser); err != nil {
		c.log.Warn("evict user", zap.Error(err))
	}
	if c.authExpired != nil {
		c.authExpired()
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", true, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, in, out any) error {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, query, body, contentType, true, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, body, contentType, true, out)
}

func jsonBody(in any) (io.Reader, string, error) {
	if in == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, "", &Error{Kind: errs.ErrValidation, Message: "encode request: " + err.Error()}
	}
	return bytes.NewReader(b), "application/json", nil
}

func requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
