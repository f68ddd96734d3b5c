package defectapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	EndpointDefects = "road-defects"

	msgUnknownError = "unknown error"

	defaultTimeout = 5 * time.Second
	retryInterval  = 200 * time.Millisecond
)

var jsonAPI = sonic.Config{UseNumber: true}.Froze()

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

type Request struct {
	Endpoint string
	Method   string
	Params   url.Values
	Body     any
	// Stream leaves the response body open for binary pass-through.
	Stream bool
}

// Envelope is the decoded `{data: ...}` payload of a successful call.
type Envelope struct {
	Data json.RawMessage `json:"data"`
	Raw  json.RawMessage `json:"-"`
}

// Defects decodes a list payload. A missing or null data field is an empty list.
func (e *Envelope) Defects() ([]domain.Defect, error) {
	data := bytes.TrimSpace(e.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var defects []domain.Defect
	if err := jsonAPI.Unmarshal(data, &defects); err != nil {
		return nil, fmt.Errorf("decode defects: %w", err)
	}
	return defects, nil
}

// Defect decodes a single-object payload.
func (e *Envelope) Defect() (domain.Defect, error) {
	var defect domain.Defect
	if err := jsonAPI.Unmarshal(e.Data, &defect); err != nil {
		return nil, fmt.Errorf("decode defect: %w", err)
	}
	return defect, nil
}

// Result is the uniform outcome of a call. Failures are values, never errors.
type Result struct {
	OK         bool
	StatusCode int
	Message    string
	Payload    *Envelope

	// Set only for streamed calls; the caller closes Body.
	Body        io.ReadCloser
	ContentType string
}

type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint64
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
	}
}

func (c *Client) URL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) Call(ctx context.Context, req Request) *Result {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	apiURL := c.URL(req.Endpoint)
	if len(req.Params) > 0 {
		apiURL += "?" + req.Params.Encode()
	}

	var body []byte
	if req.Body != nil {
		var err error
		body, err = jsonAPI.Marshal(req.Body)
		if err != nil {
			return &Result{OK: false, Message: fmt.Sprintf("encode body: %s", err.Error())}
		}
	}

	logger.Info(ctx, "defect api request",
		zap.String("method", method),
		zap.String("url", apiURL),
		zap.Any("params", req.Params),
		zap.ByteString("body", body),
	)

	resp, err := c.do(ctx, method, apiURL, body)
	if err != nil {
		logger.Warn(ctx, "defect api transport error", zap.String("url", apiURL), zap.Error(err))
		return &Result{OK: false, Message: err.Error()}
	}

	logger.Info(ctx, "defect api response", zap.String("url", apiURL), zap.Int("status", resp.StatusCode))

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if req.Stream && ok {
		return &Result{
			OK:          true,
			StatusCode:  resp.StatusCode,
			Body:        resp.Body,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Result{OK: false, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if !ok {
		msg := errorMessage(raw)
		logger.Warn(ctx, "defect api error", zap.String("url", apiURL), zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return &Result{OK: false, StatusCode: resp.StatusCode, Message: msg}
	}

	env := &Envelope{Raw: raw}
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
	case trimmed[0] == '{':
		if err := jsonAPI.Unmarshal(trimmed, env); err != nil {
			return &Result{OK: false, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %s", err.Error())}
		}
	case jsonAPI.Valid(trimmed):
		// bare array or scalar, no envelope
		env.Data = trimmed
	default:
		return &Result{OK: false, StatusCode: resp.StatusCode, Message: "decode response: invalid json"}
	}

	return &Result{OK: true, StatusCode: resp.StatusCode, Payload: env}
}

// do retries transport failures only, up to maxRetries times.
func (c *Client) do(ctx context.Context, method, apiURL string, body []byte) (*http.Response, error) {
	var resp *http.Response
	op := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Accept", "application/json")
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err = c.http.Do(httpReq)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

func errorMessage(raw []byte) string {
	var envelope map[string]any
	if err := jsonAPI.Unmarshal(raw, &envelope); err == nil {
		for _, key := range []string{"message", "error"} {
			if v, ok := envelope[key]; ok && v != nil {
				if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
					return s
				}
			}
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return msgUnknownError
}

func (c *Client) ListDefects(ctx context.Context, params url.Values) *Result {
	return c.Call(ctx, Request{Endpoint: EndpointDefects, Params: params})
}

func (c *Client) GetDefect(ctx context.Context, id string) *Result {
	return c.Call(ctx, Request{Endpoint: EndpointDefects + "/" + url.PathEscape(id)})
}

func (c *Client) DefectImage(ctx context.Context, id string) *Result {
	return c.Call(ctx, Request{Endpoint: EndpointDefects + "/" + url.PathEscape(id) + "/image", Stream: true})
}

// Analytics calls road-defects/<kind> (stats, trends, distribution, road-analysis).
func (c *Client) Analytics(ctx context.Context, kind string, params url.Values) *Result {
	return c.Call(ctx, Request{Endpoint: EndpointDefects + "/" + kind, Params: params})
}
