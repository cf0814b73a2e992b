package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"signa/internal/domain"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// Client talks to the Signa backend.
type Client struct {
	Base    string
	HTTP    *http.Client
	Headers domain.HeaderSource
	Log     *zap.Logger
}

// New returns a Client for base. A nil httpClient means http.DefaultClient;
// headers supplies the bearer token for authenticated calls.
func New(base string, httpClient *http.Client, headers domain.HeaderSource, log *zap.Logger) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		Base:    strings.TrimRight(base, "/"),
		HTTP:    httpClient,
		Headers: headers,
		Log:     log,
	}
}

var (
	_ domain.AuthAPI = (*Client)(nil)
	_ domain.SignAPI = (*Client)(nil)
	_ domain.UserAPI = (*Client)(nil)
)

// do sends one JSON request. Authenticated requests take their headers from
// c.Headers; out may be nil when the body is not needed.
func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if authed && c.Headers != nil {
		for k, vs := range c.Headers.AuthHeaders() {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Debug("request failed", zap.String("op", op), zap.String("request_id", reqID), zap.Error(err))
		return &Error{Kind: KindTransport, Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	c.Log.Debug("request",
		zap.String("op", op),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode/100 != 2 {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil {
		return &Error{Kind: KindUnparsable, Op: op, Status: resp.StatusCode, Message: UnknownErrorMessage}
	}
	msg := eb.Error
	if msg == "" {
		msg = fmt.Sprintf("http error: status %d", resp.StatusCode)
	}
	return &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode, Message: msg}
}
