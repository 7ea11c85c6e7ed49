// Package client is a Go client for the miniticket HTTP API. It mirrors
// what the web frontend does: it performs the auth and ticket calls,
// keeps the identity token in a session persisted through a Store, and
// logs out automatically when the token expires.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by authenticated calls without a live
// session.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError carries a structured error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Ticket is the wire shape of a ticket. Owner is present only in admin
// listings.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	OwnerID     string       `json:"owner_id"`
	Owner       *TicketOwner `json:"owner,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TicketOwner identifies a ticket's owner.
type TicketOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatusChange is one audit entry for a ticket.
type StatusChange struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	ChangedByID string    `json:"changed_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterInput describes a signup request.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
	AdminSecret string `json:"adminsecret,omitempty"`
}

// Client talks to the miniticket API.
type Client struct {
	baseURL  string
	http     *http.Client
	store    Store
	onExpire func()

	mu      sync.Mutex
	session *Session
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStore sets the session persistence store.
func WithStore(store Store) Option {
	return func(c *Client) { c.store = store }
}

// WithExpiryFunc sets a callback invoked once when the session token
// expires (not on manual logout).
func WithExpiryFunc(fn func()) Option {
	return func(c *Client) { c.onExpire = fn }
}

// New builds a client for the given API base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account. No session is established.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", input, nil, false)
}

// Login authenticates and establishes a session, persisting it through
// the store when one is configured.
func (c *Client) Login(ctx context.Context, email, password string) (SessionState, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return SessionState{}, err
	}

	session, err := NewSession(resp.Token, c.expireSession)
	if err != nil {
		return SessionState{}, err
	}

	c.mu.Lock()
	if c.session != nil {
		c.session.Close()
	}
	c.session = session
	c.mu.Unlock()

	state := session.State()
	if c.store != nil {
		if err := c.store.Save(state); err != nil {
			return state, err
		}
	}
	return state, nil
}

// Restore rebuilds the session from the store. It returns false when no
// usable session exists; an expired stored token is cleared.
func (c *Client) Restore() (bool, error) {
	if c.store == nil {
		return false, nil
	}
	state, ok, err := c.store.Load()
	if err != nil || !ok {
		return false, err
	}
	if state.Expired() {
		_ = c.store.Clear()
		return false, nil
	}

	session, err := NewSession(state.Token, c.expireSession)
	if err != nil {
		_ = c.store.Clear()
		return false, nil
	}

	c.mu.Lock()
	if c.session != nil {
		c.session.Close()
	}
	c.session = session
	c.mu.Unlock()
	return true, nil
}

// Logout cancels the auto-logout timer and clears the stored session.
func (c *Client) Logout() error {
	c.mu.Lock()
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	c.mu.Unlock()

	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

// Session returns the current session state and whether one is live.
func (c *Client) Session() (SessionState, bool) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return SessionState{}, false
	}
	if _, ok := session.Token(); !ok {
		return SessionState{}, false
	}
	return session.State(), true
}

// CreateTicket opens a new ticket owned by the logged-in user.
func (c *Client) CreateTicket(ctx context.Context, title, description string) (Ticket, error) {
	var ticket Ticket
	body := map[string]string{"title": title, "description": description}
	err := c.do(ctx, http.MethodPost, "/tickets", body, &ticket, true)
	return ticket, err
}

// ListTickets returns the caller's tickets, or every ticket with owner
// info when the caller is an admin.
func (c *Client) ListTickets(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	err := c.do(ctx, http.MethodGet, "/tickets", nil, &tickets, true)
	return tickets, err
}

// UpdateStatus overwrites a ticket's status. Admin only.
func (c *Client) UpdateStatus(ctx context.Context, ticketID, status string) (Ticket, error) {
	var ticket Ticket
	body := map[string]string{"status": status}
	err := c.do(ctx, http.MethodPut, "/tickets/"+ticketID, body, &ticket, true)
	return ticket, err
}

// History returns the status-change audit trail for a ticket. Admin only.
func (c *Client) History(ctx context.Context, ticketID string) ([]StatusChange, error) {
	var entries []StatusChange
	err := c.do(ctx, http.MethodGet, "/tickets/"+ticketID+"/history", nil, &entries, true)
	return entries, err
}

func (c *Client) expireSession() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Clear()
	}
	if c.onExpire != nil {
		c.onExpire()
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		c.mu.Lock()
		session := c.session
		c.mu.Unlock()
		if session == nil {
			return ErrNotLoggedIn
		}
		token, ok := session.Token()
		if !ok {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		} else {
			apiErr.Message = envelope.Message
		}
	}
	return apiErr
}
