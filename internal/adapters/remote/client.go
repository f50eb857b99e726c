package remote

import (
	"context"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/platform/obs"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client drives a scheduler served over HTTP, the way the contest server
// talks to an elevator. The driver operations report nothing back, so
// failures are logged and kept for Err.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL *url.URL
	log     *slog.Logger

	mu      sync.Mutex
	lastErr error
}

// New builds a client for the fleet mounted at baseURL, for example
// http://localhost:8080/main.
func New(baseURL string, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote client: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote client: base url %q needs a scheme and host", baseURL)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		session: &http.Client{Timeout: 5 * time.Second},
		baseURL: u,
		log:     log.With("remote", u.String()),
	}, nil
}

// Err returns the last failure seen, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) fail(op string, err error) {
	c.log.Error("remote call failed", "op", op, "err", err)
	c.mu.Lock()
	c.lastErr = fmt.Errorf("%s: %w", op, err)
	c.mu.Unlock()
}

// NextCommands returns nil when the server cannot be reached, which a
// building treats as a wrong command count.
func (c *Client) NextCommands(ctx context.Context) []domain.Command {
	body, err := c.call(ctx, "nextCommands", nil)
	if err != nil {
		c.fail("nextCommands", err)
		return nil
	}
	fields := strings.Fields(body)
	cmds := make([]domain.Command, len(fields))
	for i, f := range fields {
		cmds[i] = domain.Command(f)
	}
	return cmds
}

func (c *Client) Reset(cause string, lower, higher, capacity, count int) error {
	_, err := c.call(context.Background(), "reset", url.Values{
		"cause":       {cause},
		"lowerFloor":  {strconv.Itoa(lower)},
		"higherFloor": {strconv.Itoa(higher)},
		"cabinSize":   {strconv.Itoa(capacity)},
		"cabinCount":  {strconv.Itoa(count)},
	})
	if err != nil {
		c.fail("reset", err)
	}
	return err
}

func (c *Client) Call(floor int, dir domain.Direction) {
	c.send("call", url.Values{"atFloor": {strconv.Itoa(floor)}, "to": {dir.String()}})
}

func (c *Client) Go(cabin, floor int) {
	c.send("go", url.Values{"cabin": {strconv.Itoa(cabin)}, "floorToGo": {strconv.Itoa(floor)}})
}

func (c *Client) UserHasEntered(cabin int) {
	c.send("userHasEntered", url.Values{"cabin": {strconv.Itoa(cabin)}})
}

func (c *Client) UserHasExited(cabin int) {
	c.send("userHasExited", url.Values{"cabin": {strconv.Itoa(cabin)}})
}

func (c *Client) send(op string, q url.Values) {
	if _, err := c.call(context.Background(), op, q); err != nil {
		c.fail(op, err)
	}
}

func (c *Client) call(ctx context.Context, op string, q url.Values) (_ string, err error) {
	done := obs.Time(ctx, "remote."+op)
	defer done(&err)

	u := c.baseURL.JoinPath(op)
	u.RawQuery = q.Encode()

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// retryable is true only when the server cannot have applied the request:
// it refused the connection or answered 429/503. Driver operations are not
// idempotent, so nothing else is retried.
func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		return he.Code == http.StatusTooManyRequests || he.Code == http.StatusServiceUnavailable
	}
	var oe *net.OpError
	return errors.As(err, &oe) && oe.Op == "dial"
}

// doWithRetry retries using exponential backoff while respecting context
// cancellation.
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 50 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
