// internal/adapters/hbnbapi/client.go
package hbnbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

const service = "hbnb"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client for the HBnB REST API rooted at base (e.g. http://localhost:5000).
// rps <= 0 means unlimited.
func New(base string, timeout time.Duration, rps int) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("parse api base: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base must be absolute, got %q", base)
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &Client{
		base: strings.TrimRight(u.String(), "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   lim,
	}, nil
}

// ---- Public API ----

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "login", authNone, "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login: response carried no access_token")
	}
	return out.AccessToken, nil
}

// ListPlaces sends the bearer header only when the session has a token,
// so anonymous browsing works.
func (c *Client) ListPlaces(ctx context.Context, s domain.Session) ([]domain.Place, error) {
	var out []domain.Place
	return out, c.do(ctx, http.MethodGet, "/api/v1/places/", "places", authIfToken, s.Token, nil, &out)
}

func (c *Client) GetPlace(ctx context.Context, s domain.Session, id string) (domain.Place, error) {
	var out domain.Place
	return out, c.do(ctx, http.MethodGet, "/api/v1/places/"+url.PathEscape(id), "place", authIfToken, s.Token, nil, &out)
}

func (c *Client) ListReviews(ctx context.Context, placeID string) ([]domain.Review, error) {
	var out []domain.Review
	return out, c.do(ctx, http.MethodGet, "/api/v1/places/"+url.PathEscape(placeID)+"/reviews", "reviews", authNone, "", nil, &out)
}

// SubmitReview always sends the bearer header, even an empty one; the API decides.
func (c *Client) SubmitReview(ctx context.Context, s domain.Session, r domain.NewReview) (domain.Review, error) {
	var out domain.Review
	return out, c.do(ctx, http.MethodPost, "/api/v1/reviews/", "submit_review", authAlways, s.Token, r, &out)
}

// ---- Internals ----

// auth says when a call carries the session token.
type auth int

const (
	authNone    auth = iota
	authIfToken      // anonymous callers send no header
	authAlways       // header sent even with an empty token
)

// authHeader returns the Authorization value for mode, if one is sent.
// The token is used verbatim; it is never inspected.
func authHeader(mode auth, token string) (string, bool) {
	switch mode {
	case authIfToken:
		return "Bearer " + token, token != ""
	case authAlways:
		return "Bearer " + token, true
	}
	return "", false
}

// do performs one request. No retries: every failure is final for this attempt.
func (c *Client) do(ctx context.Context, method, path, endpoint string, mode auth, token string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rdr io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hbnb-web/1.0")
	if v, ok := authHeader(mode, token); ok {
		req.Header.Set("Authorization", v)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apiError(resp, b)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// apiError applies a single parsing strategy to every error body: JSON "error"
// then "message" when the body is valid JSON, otherwise nothing.
func apiError(resp *http.Response, body []byte) *domain.APIError {
	e := &domain.APIError{Status: resp.StatusCode, StatusText: statusText(resp)}
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		for _, k := range []string{"error", "message"} {
			if v := res.Get(k); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				e.Message = v.Str
				break
			}
		}
	}
	return e
}

// statusText returns the reason phrase the server sent ("401 UNAUTHORIZED" -> "UNAUTHORIZED"),
// or the canonical text when it sent none.
func statusText(resp *http.Response) string {
	if t := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); t != "" {
		return t
	}
	return http.StatusText(resp.StatusCode)
}
