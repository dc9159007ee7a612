// Package timetracking is the client of the external attendance service that
// supplies theoretical shifts and real punches.
package timetracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ops-portal.com/ops-portal/internal/logging"
	"ops-portal.com/ops-portal/internal/overtime"
)

// ErrUnavailable wraps every transport, status and decoding failure so callers
// can decide whether to degrade.
var ErrUnavailable = errors.New("time-tracking service unavailable")

var errUnauthorized = errors.New("upstream rejected credentials")

const tokenTTL = 50 * time.Minute

type Options struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
}

type Client struct {
	baseURL  string
	user     string
	password string
	http     *http.Client
	tokens   TokenStore
	log      logging.Logger
}

func NewClient(opts Options, tokens TokenStore, log logging.Logger) *Client {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if log == nil {
		log = logging.Discard()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		user:     opts.User,
		password: opts.Password,
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		log:      log,
	}
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type attendanceRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
}

type attendanceResponse struct {
	Employees []struct {
		EmployeeID string `json:"employee_id"`
		Days       []struct {
			Date                  string   `json:"date"`
			TheoreticalStart      string   `json:"theoretical_start"`
			TheoreticalEnd        string   `json:"theoretical_end"`
			Punches               []string `json:"punches"`
			AuthorizedBeforeHours float64  `json:"authorized_before_hours"`
			AuthorizedAfterHours  float64  `json:"authorized_after_hours"`
		} `json:"days"`
	} `json:"employees"`
}

// Attendance returns the days of one employee between start and end
// inclusive (YYYY-MM-DD). A 401 drops the cached token and retries once with
// a fresh login.
func (c *Client) Attendance(ctx context.Context, employeeID, start, end string) ([]overtime.Attendance, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: base url not configured", ErrUnavailable)
	}

	body := attendanceRequest{EmployeeIDs: []string{employeeID}, Start: start, End: end}

	var resp attendanceResponse
	err := c.withToken(ctx, func(token string) error {
		return c.post(ctx, "/attendance", token, body, &resp)
	})
	if err != nil {
		return nil, err
	}

	var days []overtime.Attendance
	for _, emp := range resp.Employees {
		if emp.EmployeeID != employeeID {
			continue
		}
		for _, d := range emp.Days {
			days = append(days, overtime.Attendance{
				Date:                  d.Date,
				TheoreticalStart:      d.TheoreticalStart,
				TheoreticalEnd:        d.TheoreticalEnd,
				Punches:               d.Punches,
				AuthorizedBeforeHours: d.AuthorizedBeforeHours,
				AuthorizedAfterHours:  d.AuthorizedAfterHours,
			})
		}
	}
	return days, nil
}

func (c *Client) withToken(ctx context.Context, call func(token string) error) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	err = call(token)
	if !errors.Is(err, errUnauthorized) {
		return err
	}

	c.log.Warn(ctx, "upstream token rejected, logging in again")
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Warn(ctx, "failed to clear cached upstream token", "error", err)
	}

	token, err = c.login(ctx)
	if err != nil {
		return err
	}

	if err := call(token); err != nil {
		if errors.Is(err, errUnauthorized) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrNoToken) {
		c.log.Warn(ctx, "token cache read failed", "error", err)
	}
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) (string, error) {
	var resp loginResponse
	err := c.post(ctx, "/login", "", loginRequest{User: c.user, Password: c.password}, &resp)
	if err != nil {
		if errors.Is(err, errUnauthorized) {
			return "", fmt.Errorf("%w: login rejected", ErrUnavailable)
		}
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: login returned no token", ErrUnavailable)
	}

	if err := c.tokens.Set(ctx, resp.Token, tokenTTL); err != nil {
		c.log.Warn(ctx, "failed to cache upstream token", "error", err)
	}
	return resp.Token, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return errUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrUnavailable, path, err)
	}
	return nil
}
