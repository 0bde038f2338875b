// Package client is the programmatic counterpart of the web dashboard: it
// authenticates against the CrewDeck API, keeps a local cache of the three
// collections, and funnels every mutation through the server before merging
// the result back into the cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/madanco/crewdeck/pkg/models"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// Client caches users, jobs, and communications. The server is the source of
// truth: mutations go over HTTP first and the cache merges the returned
// record; RefreshData replaces the cache wholesale.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	user  *models.User
	token string
	users []models.User
	jobs  []models.Job
	comms []models.Communication
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type loginResponse struct {
	Success      bool         `json:"success"`
	User         *models.User `json:"user"`
	SessionToken string       `json:"sessionToken"`
	Error        string       `json:"error"`
}

// Login authenticates and loads the initial data set.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success || resp.User == nil {
		return ErrUnauthorized
	}

	c.mu.Lock()
	c.user = resp.User
	c.token = resp.SessionToken
	c.mu.Unlock()

	return c.RefreshData(ctx)
}

// Logout tells the server (best effort; the token is stateless) and drops all
// local state.
func (c *Client) Logout(ctx context.Context) {
	_ = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.reset()
}

func (c *Client) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.token = ""
	c.users = nil
	c.jobs = nil
	c.comms = nil
}

func (c *Client) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) SessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Users() []models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.User, len(c.users))
	copy(out, c.users)
	return out
}

func (c *Client) Jobs() []models.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

func (c *Client) Communications() []models.Communication {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Communication, len(c.comms))
	copy(out, c.comms)
	return out
}

// savedSession is the piece of state that survives restarts.
type savedSession struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// SaveSession serializes the current user and token for persistence by the
// caller (a file, a keychain, browser storage in the original app).
func (c *Client) SaveSession() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil, ErrNotLoggedIn
	}
	return json.Marshal(savedSession{User: c.user, Token: c.token})
}

// RestoreSession trusts the saved user until the refresh proves the token is
// still good; a failed refresh forces a logout.
func (c *Client) RestoreSession(ctx context.Context, data []byte) error {
	var s savedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode saved session: %w", err)
	}
	if s.User == nil || s.Token == "" {
		return ErrNotLoggedIn
	}

	c.mu.Lock()
	c.user = s.User
	c.token = s.Token
	c.mu.Unlock()

	if err := c.RefreshData(ctx); err != nil {
		c.reset()
		return err
	}
	return nil
}

// do issues one JSON request. A 401 from the server means the session died
// mid-use; local state is dropped so the caller ends up logged out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	// Pull the server's error message if there is one.
	msg := ""
	var errBody struct {
		Error string `json:"error"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
		msg = errBody.Error
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if path != "/auth/login" {
			c.reset()
		}
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("server error: %s", msg)
	}
}
