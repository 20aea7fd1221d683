package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"taskctl/internal/service"
)

const (
	// LoginPath is the server's form login page.
	LoginPath = "/accounts/login/"

	// LogoutPath ends the server-side session.
	LogoutPath = "/accounts/logout/"

	// SessionCookie identifies an authenticated session.
	SessionCookie = "sessionid"
)

// storedSession is the on-disk form of the cookie jar.
type storedSession struct {
	BaseURL string         `json:"base_url"`
	SavedAt time.Time      `json:"saved_at"`
	Cookies []storedCookie `json:"cookies"`
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func newJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

func (c *Client) cookie(name string) string {
	if c.http.Jar == nil {
		return ""
	}
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// loadSession restores cookies saved for the same server.
// A missing file is not an error.
func (c *Client) loadSession() error {
	if c.sessionPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.sessionPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(c.sessionPath), err)
	}

	var s storedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", filepath.Base(c.sessionPath), err)
	}
	if strings.TrimRight(s.BaseURL, "/") != c.base.String() {
		c.logger.Debug("ignoring session for another server", "session_url", s.BaseURL, "url", c.base.String())
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, sc := range s.Cookies {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/"})
	}
	c.http.Jar.SetCookies(c.base, cookies)
	return nil
}

// saveSession writes the current cookies with mode 0600.
func (c *Client) saveSession() error {
	if c.sessionPath == "" {
		return nil
	}
	s := storedSession{BaseURL: c.base.String(), SavedAt: time.Now().UTC()}
	for _, ck := range c.http.Jar.Cookies(c.base) {
		s.Cookies = append(s.Cookies, storedCookie{Name: ck.Name, Value: ck.Value})
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

// Login implements service.Authenticator using the server's login form.
// The login page is fetched first for its CSRF cookie; the session counts
// as established only if the server issues a session cookie.
func (c *Client) Login(ctx context.Context, identifier, password string) error {
	jar, err := newJar()
	if err != nil {
		return err
	}
	c.http.Jar = jar

	ctx, cancel := context.WithTimeout(ctx, 2*c.timeout)
	defer cancel()

	loginURL := c.resolve(LoginPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if err := c.send(req); err != nil {
		return err
	}

	form := url.Values{
		"username_or_email":   {identifier},
		"password":            {password},
		"csrfmiddlewaretoken": {c.cookie(CSRFCookie)},
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setCSRF(req)
	req.Header.Set("Referer", loginURL)
	if err := c.send(req); err != nil {
		return err
	}

	if c.cookie(SessionCookie) == "" {
		return service.ErrInvalidCredentials
	}

	if err := c.saveSession(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.logger.Debug("logged in", "url", c.base.String())
	return nil
}

// Logout implements service.Authenticator. The server call is best effort;
// the stored session is always removed.
func (c *Client) Logout(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.cookie(SessionCookie) != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(LogoutPath), nil)
		if err == nil {
			if err := c.send(req); err != nil {
				c.logger.Debug("server logout failed", "error", err)
			}
		}
	}

	if jar, err := newJar(); err == nil {
		c.http.Jar = jar
	}

	if c.sessionPath == "" {
		return nil
	}
	if err := os.Remove(c.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// send performs a form request, discarding the body. Redirects are followed.
func (c *Client) send(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("auth request", "method", req.Method, "url", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
