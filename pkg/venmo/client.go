package venmo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.venmo.com/v1"

const friendsPageSize = 1337

// Client talks to the payment network over HTTPS with a bearer access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, sandboxes).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client authenticated with an access token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ Service = (*Client)(nil)

type userPayload struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

func (u userPayload) profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

// GetProfile returns the account owning the access token.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var resp struct {
		Data struct {
			User userPayload `json:"user"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/account", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p := resp.Data.User.profile()
	return &p, nil
}

// ListFriends returns the friends of userID.
func (c *Client) ListFriends(ctx context.Context, userID string) ([]Profile, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(friendsPageSize))
	var resp struct {
		Data []userPayload `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/friends", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	out := make([]Profile, 0, len(resp.Data))
	for _, u := range resp.Data {
		out = append(out, u.profile())
	}
	return out, nil
}

// FindUser searches by username and returns the exact match, or ErrUserNotFound.
func (c *Client) FindUser(ctx context.Context, username string) (*Profile, error) {
	q := url.Values{}
	q.Set("query", username)
	q.Set("type", "username")
	q.Set("limit", "50")
	var resp struct {
		Data []userPayload `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	for _, u := range resp.Data {
		if strings.EqualFold(u.Username, username) && u.ID != "" {
			p := u.profile()
			return &p, nil
		}
	}
	return nil, ErrUserNotFound
}

// RequestPayment asks userID for amount. The network models a request as a
// payment with a negative amount.
func (c *Client) RequestPayment(ctx context.Context, amount decimal.Decimal, note, userID string) error {
	if amount.IsNegative() {
		return fmt.Errorf("request payment: %w", ErrNegativeAmount)
	}
	body := map[string]any{
		"user_id":  userID,
		"audience": "private",
		"amount":   amount.Neg().StringFixed(2),
		"note":     note,
	}
	if err := c.do(ctx, http.MethodPost, "/payments", nil, body, nil); err != nil {
		return fmt.Errorf("request payment: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(b)}
	}
	if out == nil || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage digs the message out of {"error":{"message":...}} bodies.
func errorMessage(b []byte) string {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
