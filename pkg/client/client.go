// Package client is a typed HTTP client for the travel API. Sign-in calls
// drive a session.Session, and authenticated calls send its token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/parasjain182005/Travel-Website/pkg/client/session"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/httpclient"
)

const apiPrefix = "/api/v1"

// Config holds Client settings.
type Config struct {
	BaseURL string
	HTTP    httpclient.Config
	Breaker httpclient.CircuitBreakerConfig
}

// DefaultConfig returns a Config for the API at baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		HTTP:    httpclient.DefaultConfig(),
		Breaker: httpclient.DefaultCircuitBreakerConfig("travel-api"),
	}
}

// Client calls the travel API.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	session *session.Session
	logger  *slog.Logger
}

// New creates a Client bound to sess.
func New(cfg Config, sess *session.Session, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpclient.NewCircuitBreakerClient(httpclient.New(cfg.HTTP), cfg.Breaker, logger),
		session: sess,
		logger:  logger,
	}
}

// Session returns the session the client drives.
func (c *Client) Session() *session.Session {
	return c.session
}

// envelope is the success body of every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *PageMeta       `json:"meta"`
}

// do sends a request and decodes the data field of the response into out.
// out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*PageMeta, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, httpclient.ParseResponseError(resp, "travel api")
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return env.Meta, nil
}

// Login signs in and moves the session through LOGIN_START to
// LOGIN_SUCCESS or LOGIN_FAILURE.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Profile, error) {
	return c.authenticate(ctx, "/auth/login", session.LoginSuccess, LoginRequest{Email: email, Password: password})
}

// Register creates an account and signs in with it.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*session.Profile, error) {
	return c.authenticate(ctx, "/auth/register", session.RegisterSuccess, in)
}

func (c *Client) authenticate(ctx context.Context, path string, success session.ActionType, body any) (*session.Profile, error) {
	if _, err := c.session.Dispatch(session.Action{Type: session.LoginStart}); err != nil {
		return nil, err
	}

	var res authResponse
	if _, err := c.do(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		if _, derr := c.session.Dispatch(session.Action{Type: session.LoginFailure, Message: failureMessage(err)}); derr != nil {
			return nil, errors.Join(err, derr)
		}
		return nil, err
	}

	profile := res.profile()
	st, err := c.session.Dispatch(session.Action{Type: success, Payload: profile})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("signed in", slog.String("user_id", profile.ID))
	return st.User, nil
}

// Logout ends the session. The server call only clears the cookie, so its
// failure is logged and the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		c.logger.Warn("server logout failed", slog.String("error", err.Error()))
	}
	_, err := c.session.Dispatch(session.Action{Type: session.Logout})
	return err
}

// ListTours returns one page of tours. page is 1-based.
func (c *Client) ListTours(ctx context.Context, page, perPage int) ([]Tour, *PageMeta, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("limit", strconv.Itoa(perPage))
	}
	var tours []Tour
	meta, err := c.do(ctx, http.MethodGet, "/tours", q, nil, &tours)
	if err != nil {
		return nil, nil, err
	}
	return tours, meta, nil
}

// GetTour returns a tour with its reviews.
func (c *Client) GetTour(ctx context.Context, id string) (*Tour, error) {
	var tour Tour
	if _, err := c.do(ctx, http.MethodGet, "/tours/"+url.PathEscape(id), nil, nil, &tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

// SubmitReview posts a review for a tour. Requires a signed-in session.
func (c *Client) SubmitReview(ctx context.Context, tourID string, in ReviewRequest) (*Review, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var review Review
	if _, err := c.do(ctx, http.MethodPost, "/review/"+url.PathEscape(tourID), nil, in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// RecomputeRating forces the cached rating of a tour to be recomputed.
// Requires an admin or moderator session.
func (c *Client) RecomputeRating(ctx context.Context, tourID string) (RatingSummary, error) {
	if err := c.requireSession(); err != nil {
		return RatingSummary{}, err
	}
	var summary RatingSummary
	path := "/tours/" + url.PathEscape(tourID) + "/rating/recompute"
	if _, err := c.do(ctx, http.MethodPost, path, nil, nil, &summary); err != nil {
		return RatingSummary{}, err
	}
	return summary, nil
}

// CreateBooking books a tour for the signed-in user.
func (c *Client) CreateBooking(ctx context.Context, in BookingRequest) (*Booking, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var booking Booking
	if _, err := c.do(ctx, http.MethodPost, "/book", nil, in, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) requireSession() error {
	if c.session.Token() == "" {
		return apperrors.Unauthorized("not signed in")
	}
	return nil
}

// failureMessage is the text stored in the session after a failed sign-in.
func failureMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// authResponse mirrors the body of the login and register endpoints.
type authResponse struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Photo    string `json:"photo"`
		Role     string `json:"role"`
	} `json:"user"`
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (r authResponse) profile() *session.Profile {
	role := r.Role
	if role == "" {
		role = r.User.Role
	}
	return &session.Profile{
		ID:        r.User.ID,
		Username:  r.User.Username,
		Email:     r.User.Email,
		Photo:     r.User.Photo,
		Role:      role,
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
	}
}
