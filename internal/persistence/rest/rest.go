// Package rest talks to the remote JSON data store the expenses are kept in.
//
// The store uses a Firebase style layout: the whole collection lives at
// {base}/expenses.json as an object keyed by record ID, and a single record
// at {base}/expenses/{id}.json.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"expenses/internal/apperrors"
	"expenses/internal/core"
	"expenses/internal/persistence"
)

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

const collection = "expenses"

var _ persistence.Persistence = (*Client)(nil)

// Options configure a Client.
type Options struct {
	BaseURL string
	// Token, when set, is sent as a bearer token on every request.
	Token   string
	Timeout time.Duration
	// Transport replaces the pooled default transport (tests).
	Transport http.RoundTripper
	Logger    *slog.Logger
}

type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// StatusError is returned for any non 2xx reply.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// Unwrap maps a 404 onto apperrors.ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return apperrors.ErrNotFound
	}
	return nil
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("missing base URL")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", base.Scheme)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = newPooledTransport()
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}),
			Base:   transport,
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   base,
		http:   &http.Client{Transport: transport, Timeout: timeout},
		logger: logger,
	}, nil
}

func newPooledTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// FetchAll returns every stored expense ordered by ID. Push style IDs sort
// in creation order. Records that cannot be parsed are skipped.
func (c *Client) FetchAll(ctx context.Context) ([]core.Expense, error) {
	var raw map[string]*persistence.Record
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &raw); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for id, rec := range raw {
		if rec != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]core.Expense, 0, len(ids))
	for _, id := range ids {
		e, err := raw[id].Expense(id)
		if err != nil {
			c.logger.WarnContext(ctx, "Skipping unreadable expense record", "id", id, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type createReply struct {
	Name string `json:"name"`
}

func (c *Client) Create(ctx context.Context, p core.Payload) (string, error) {
	var reply createReply
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), persistence.RecordFromPayload(p), &reply); err != nil {
		return "", err
	}
	if reply.Name == "" {
		return "", errors.New("create: reply carries no id")
	}
	return reply.Name, nil
}

func (c *Client) Update(ctx context.Context, id string, patch core.Patch) error {
	if id == "" {
		return fmt.Errorf("update: %w: empty id", apperrors.ErrValidation)
	}
	return c.do(ctx, http.MethodPatch, c.recordURL(id), persistence.PatchRecord(patch), nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete: %w: empty id", apperrors.ErrValidation)
	}
	return c.do(ctx, http.MethodDelete, c.recordURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return c.base.JoinPath(collection + ".json").String()
}

func (c *Client) recordURL(id string) string {
	return c.base.JoinPath(collection, id+".json").String()
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Remote store call",
		"method", method,
		"url", target,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, URL: target, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s reply: %w", method, err)
	}
	return nil
}
