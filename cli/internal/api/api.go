package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/responses"
	"github.com/dictl-dev/dictl/internal/types"
	"github.com/dictl-dev/dictl/log"
)

const (
	headerIfMatch       = "if-match"
	headerOpcRetryToken = "opc-retry-token"
	defaultTimeout      = 60 * time.Second
)

// Verify interface implementations at compile time
var _ lro.Fetcher = (*Client)(nil)

// Client represents an API client.
type Client struct {
	endpoint string
	http     *resty.Client
}

type settings struct {
	hc        *http.Client
	userAgent string
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*settings)

// WithHTTPClient makes the Client send requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.hc = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		s.userAgent = ua
	}
}

// WithTimeout bounds every single request. The default is 60s.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// NewClient returns a new API client. An empty authToken sends no
// Authorization header.
func NewClient(endpoint, authToken string, opts ...Option) *Client {
	s := settings{timeout: defaultTimeout}
	for _, o := range opts {
		o(&s)
	}

	hc := resty.New()
	if s.hc != nil {
		hc = resty.NewWithClient(s.hc)
	}
	hc.SetTimeout(s.timeout)
	hc.SetDisableWarn(true)
	hc.SetHeader("Accept", "application/json")
	if s.userAgent != "" {
		hc.SetHeader("User-Agent", s.userAgent)
	}
	if authToken != "" {
		hc.SetAuthToken(authToken)
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     hc,
	}
}

// Call describes one REST call.
type Call struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	IfMatch string
}

// Do performs call and returns the response envelope. Non-2xx answers are
// returned as *ServiceError.
func (c *Client) Do(ctx context.Context, call Call) (responses.Envelope, error) {
	requestID := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	l := log.WithCtx(ctx).With("method", call.Method, "path", call.Path, responses.HeaderOpcRequestID, requestID)

	req := c.http.R().
		SetContext(ctx).
		SetHeader(responses.HeaderOpcRequestID, requestID).
		SetQueryParamsFromValues(call.Query)

	if call.Method == http.MethodPost {
		req.SetHeader(headerOpcRetryToken, uuid.NewString())
	}
	if call.IfMatch != "" {
		req.SetHeader(headerIfMatch, call.IfMatch)
	}
	if call.Body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(call.Body)
	}

	l.Debug("sending request")

	resp, err := req.Execute(call.Method, c.endpoint+call.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return responses.Envelope{}, fmt.Errorf("unable to make api call: %w", err)
	}

	l.Debugw("received response", "status", resp.StatusCode(), "duration", resp.Time())

	if resp.IsError() {
		return responses.Envelope{}, newServiceError(resp)
	}

	env := responses.Envelope{
		ETag:             resp.Header().Get(responses.HeaderETag),
		OpcNextPage:      resp.Header().Get(responses.HeaderOpcNextPage),
		OpcRequestID:     resp.Header().Get(responses.HeaderOpcRequestID),
		OpcWorkRequestID: resp.Header().Get(responses.HeaderOpcWorkRequestID),
	}
	if body := resp.Body(); len(strings.TrimSpace(string(body))) > 0 {
		if !json.Valid(body) {
			var v interface{}
			return responses.Envelope{}, fmt.Errorf("unable to parse response: %w", json.Unmarshal(body, &v))
		}
		env.Data = json.RawMessage(body)
	}
	return env, nil
}

// GetWorkRequest gets a work request.
func (c *Client) GetWorkRequest(ctx context.Context, id string) (responses.WorkRequest, responses.Envelope, error) {
	path, err := types.Expand(types.WorkRequest.ItemPath(), map[string]string{types.WorkRequest.KeyParam: id})
	if err != nil {
		return responses.WorkRequest{}, responses.Envelope{}, err
	}

	env, err := c.Do(ctx, Call{Method: http.MethodGet, Path: path})
	if err != nil {
		return responses.WorkRequest{}, responses.Envelope{}, err
	}

	var wr responses.WorkRequest
	if err := json.Unmarshal(env.Data, &wr); err != nil {
		return responses.WorkRequest{}, responses.Envelope{}, fmt.Errorf("unable to parse response: %w", err)
	}
	return wr, env, nil
}

// Fetch reads the status of the work request h. A fetch cut short by the
// deadline of ctx reports lro.ErrMaxWaitExceeded. A per-request timeout is an
// ordinary fetch error.
func (c *Client) Fetch(ctx context.Context, h lro.Handle) (lro.Status, responses.Envelope, error) {
	wr, env, err := c.GetWorkRequest(ctx, string(h))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", responses.Envelope{}, fmt.Errorf("%w: %v", lro.ErrMaxWaitExceeded, err)
		}
		return "", responses.Envelope{}, err
	}

	status, err := lro.ParseStatus(wr.Status)
	if err != nil {
		return "", responses.Envelope{}, fmt.Errorf("unable to parse response: %w", err)
	}
	return status, env, nil
}
