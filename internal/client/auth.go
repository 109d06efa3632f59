package client

import (
	"context"
	"net/http"
)

type Session struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	UserID  string   `json:"userId"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Roles   []string `json:"roles"`
	Role    string   `json:"role"`
}

type OTPRequest struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Profile struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	SubstituteName *string  `json:"substitute_name"`
	Roles          []string `json:"roles"`
	Dev            bool     `json:"dev"`
}

type Registration struct {
	Message string   `json:"message"`
	UserID  string   `json:"userId"`
	Roles   []string `json:"roles"`
}

func (c *Client) Register(ctx context.Context, email, password, name string, roles []string) (Registration, error) {
	body := map[string]interface{}{"email": email, "password": password, "name": name, "roles": roles}
	var out Registration
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"email": email, "password": password}, &out); err != nil {
		return Session{}, err
	}
	return out, c.begin(out)
}

func (c *Client) RequestOTP(ctx context.Context, email string) (OTPRequest, error) {
	var out OTPRequest
	err := c.do(ctx, http.MethodPost, "/auth/request-otp", nil, map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", nil, map[string]string{"email": email, "otp": code}, &out); err != nil {
		return Session{}, err
	}
	return out, c.begin(out)
}

func (c *Client) Me(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// SessionRoles lets the session gate confirm the stored token.
func (c *Client) SessionRoles(ctx context.Context) ([]string, error) {
	profile, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	return profile.Roles, nil
}

// Logout forgets the token locally; the server keeps no session.
func (c *Client) Logout() error {
	return c.state.Clear()
}

func (c *Client) begin(s Session) error {
	if s.Token == "" {
		return nil
	}
	roles := s.Roles
	if len(roles) == 0 && s.Role != "" {
		roles = []string{s.Role}
	}
	c.state.Begin(s.Token, roles)
	if s.Role != "" {
		_ = c.state.SelectRole(s.Role)
	}
	return c.state.Save()
}
