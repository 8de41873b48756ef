// Package client is a Go client for the delivery-service API. Session state
// is an explicit value passed to each authenticated call rather than shared
// mutable client state, so concurrent sessions never interfere.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Session carries the bearer token and profile returned by Login, Register,
// and Bootstrap.
type Session struct {
	Token string
	User  User
}

// User is the public account profile returned by the API.
type User struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Role            string   `json:"role"`
	Address         *Address `json:"address,omitempty"`
	Orders          []string `json:"orders,omitempty"`
	Available       *bool    `json:"available,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	TotalDeliveries *int     `json:"totalDeliveries,omitempty"`
	Department      string   `json:"department,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
}

// Address is the delivery address block.
type Address struct {
	DoorNo  string `json:"doorNo"`
	Street  string `json:"street"`
	Area    string `json:"area"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// UserList is a paginated listing page.
type UserList struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int64  `json:"page"`
	Limit int64  `json:"limit"`
}

// APIError carries the status and message of a failed call.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to the delivery-service API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Token   string          `json:"token,omitempty"`
}

// RegisterParams is the payload for Register.
type RegisterParams struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Phone     string   `json:"phone"`
	Role      string   `json:"role"`
	Address   *Address `json:"address,omitempty"`
}

// Register creates a customer or agent account and returns its session.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	return c.sessionCall(ctx, "/api/register", params)
}

// Login authenticates an existing account of any role.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.sessionCall(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// ForgotPassword requests a reset token for the email. The returned token is
// empty unless the server runs in mail dev mode.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/password/forgot", nil, map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/password/reset", nil, map[string]string{
		"email":    email,
		"token":    token,
		"password": newPassword,
	})
	return err
}

// AdminParams is the payload for CreateAdmin and Bootstrap.
type AdminParams struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Phone       string   `json:"phone"`
	Department  string   `json:"department"`
	Permissions []string `json:"permissions,omitempty"`
}

// Bootstrap creates the first admin account.
func (c *Client) Bootstrap(ctx context.Context, params AdminParams) (*Session, error) {
	return c.sessionCall(ctx, "/api/admin/bootstrap", params)
}

// CreateAdmin creates another admin using an admin session.
func (c *Client) CreateAdmin(ctx context.Context, session *Session, params AdminParams) (*Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/admin/create", session, params)
	if err != nil {
		return nil, err
	}
	return sessionFromEnvelope(env)
}

// ListCustomers fetches a paginated, searchable customer listing.
func (c *Client) ListCustomers(ctx context.Context, session *Session, query string, page, limit int64) (*UserList, error) {
	return c.list(ctx, session, "/api/admin/users", query, page, limit)
}

// ListAgents fetches a paginated, searchable agent listing.
func (c *Client) ListAgents(ctx context.Context, session *Session, query string, page, limit int64) (*UserList, error) {
	return c.list(ctx, session, "/api/admin/agents", query, page, limit)
}

func (c *Client) list(ctx context.Context, session *Session, path, query string, page, limit int64) (*UserList, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if page > 0 {
		params.Set("page", strconv.FormatInt(page, 10))
	}
	if limit > 0 {
		params.Set("limit", strconv.FormatInt(limit, 10))
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	env, err := c.do(ctx, http.MethodGet, path, session, nil)
	if err != nil {
		return nil, err
	}

	var list UserList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &list, nil
}

func (c *Client) sessionCall(ctx context.Context, path string, body interface{}) (*Session, error) {
	env, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return sessionFromEnvelope(env)
}

func sessionFromEnvelope(env *envelope) (*Session, error) {
	var user User
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &user); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	return &Session{Token: env.Token, User: user}, nil
}

func (c *Client) do(ctx context.Context, method, path string, session *Session, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "malformed response"}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Code: env.Error, Message: env.Message}
	}
	return &env, nil
}
