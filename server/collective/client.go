package collective

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultEndpoint = "https://api.opencollective.com/graphql"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrTooManyRequests = errors.New("too many requests")
)

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}

	var tokenSource oauth2.TokenSource
	if cfg.APIToken != "" {
		tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken})
	}

	return &Client{
		cfg:         cfg,
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(rate.Every(time.Duration(cfg.Every)), cfg.Burst),
		tokenSource: tokenSource,
	}
}

type Client struct {
	cfg         Config
	httpClient  *http.Client
	limiter     *rate.Limiter
	tokenSource oauth2.TokenSource
}

func (c *Client) Do(ctx context.Context, query string, variables map[string]any, rs any) error {
	return c.do(ctx, query, variables, rs, 0)
}

func (c *Client) do(ctx context.Context, query string, variables map[string]any, rs any, try int) error {
	if try >= c.cfg.MaxRetries {
		return fmt.Errorf("request failed after %d retries: %w", c.cfg.MaxRetries, ErrTooManyRequests)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(Req{
		Query:     query,
		Variables: variables,
	}); err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	rq.Header.Set("Content-Type", "application/json")
	rq.Header.Set("Accept", "application/json")
	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return fmt.Errorf("failed to get API token: %w", err)
		}
		token.SetAuthHeader(rq)
	}

	rs2, err := c.httpClient.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer rs2.Body.Close()

	if rs2.StatusCode == http.StatusTooManyRequests || rs2.StatusCode == http.StatusBadGateway {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
		return c.do(ctx, query, variables, rs, try+1)
	}

	if rs2.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(rs2.Body)
		return fmt.Errorf("request failed with status code: %d, response: %s", rs2.StatusCode, data)
	}

	logBuf := new(bytes.Buffer)
	bodyReader := io.TeeReader(rs2.Body, logBuf)

	var resp Resp[json.RawMessage]
	if err = json.NewDecoder(bodyReader).Decode(&resp); err != nil {
		return fmt.Errorf("failed to decode response: %q: %w", logBuf.String(), err)
	}

	if len(resp.Errors) > 0 {
		errs := make([]error, 0, len(resp.Errors))
		for _, respErr := range resp.Errors {
			errs = append(errs, respErr)
		}
		return errors.Join(errs...)
	}

	if err = json.Unmarshal(resp.Data, rs); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	return nil
}
