// Package client talks to the landing API: subscribe, send the welcome email
// and read the subscriber count.
package client

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "strings"

  "go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
  "tvinup/internal/models"
)

// StatusError is returned when the server answered with a non-2xx status.
type StatusError struct {
  Code    int
  Message string
}

func (e *StatusError) Error() string {
  if e.Message == "" {
    return fmt.Sprintf("unexpected status %d", e.Code)
  }
  return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

type Client struct {
  baseURL string
  http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
  return func(c *Client) {
    c.http = hc
  }
}

func New(baseURL string, opts ...Option) *Client {
  c := &Client{
    baseURL: strings.TrimRight(baseURL, "/"),
    http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
  }
  for _, opt := range opts {
    opt(c)
  }
  return c
}

// Subscribe posts the email to /subscribe. The returned status is the
// response code whenever the server answered, 0 otherwise.
func (c *Client) Subscribe(ctx context.Context, email string) (int, error) {
  return c.postEmail(ctx, "/subscribe", email)
}

// SendEmail asks the server to send the welcome email.
func (c *Client) SendEmail(ctx context.Context, email string) (int, error) {
  return c.postEmail(ctx, "/sendEmail", email)
}

// Count returns the number of subscribers.
func (c *Client) Count(ctx context.Context) (int, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/emails", nil)
  if err != nil {
    return 0, fmt.Errorf("failed to build request: %w", err)
  }

  resp, err := c.http.Do(req)
  if err != nil {
    return 0, fmt.Errorf("failed to fetch count: %w", err)
  }
  defer resp.Body.Close()

  if err := checkStatus(resp); err != nil {
    return 0, err
  }

  var body models.CountResponse
  if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
    return 0, fmt.Errorf("failed to decode count: %w", err)
  }
  return body.Data, nil
}

func (c *Client) postEmail(ctx context.Context, path, email string) (int, error) {
  payload, err := json.Marshal(models.EmailRequest{Email: email})
  if err != nil {
    return 0, fmt.Errorf("failed to encode request: %w", err)
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
  if err != nil {
    return 0, fmt.Errorf("failed to build request: %w", err)
  }
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.http.Do(req)
  if err != nil {
    return 0, fmt.Errorf("request %s failed: %w", path, err)
  }
  defer resp.Body.Close()

  if err := checkStatus(resp); err != nil {
    return resp.StatusCode, err
  }
  io.Copy(io.Discard, resp.Body)
  return resp.StatusCode, nil
}

func checkStatus(resp *http.Response) error {
  if resp.StatusCode >= 200 && resp.StatusCode < 300 {
    return nil
  }

  var body models.MessageResponse
  raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
  if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
    body.Error = strings.TrimSpace(string(raw))
  }
  return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
