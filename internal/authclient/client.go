// Package authclient verifies bearer tokens against the external
// authentication service and exposes the caller's identity.
//
// Two modes, selected by AUTH_MODE:
//
//	remote (default)  GET {AUTH_SERVICE_URL}/users/me with the token;
//	                  the service replies with the identity record.
//	local             the token is an HS256 JWT signed with JWT_SECRET;
//	                  verified in-process. Intended for dev and tests.
package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/vypar/config"
	"github.com/shashiranjanraj/vypar/pkg/apperr"
)

// Identity is the user record returned by the auth collaborator.
type Identity struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Client verifies bearer tokens.
type Client struct {
	baseURL string
	mode    string
	secret  []byte
	http    *http.Client
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the auth service base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMode forces "remote" or "local" regardless of AUTH_MODE.
func WithMode(mode string) Option {
	return func(c *Client) { c.mode = mode }
}

// WithSecret overrides the local-mode signing secret.
func WithSecret(secret string) Option {
	return func(c *Client) { c.secret = []byte(secret) }
}

// New builds a Client from config.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: config.AuthServiceURL(),
		mode:    config.AuthMode(),
		secret:  []byte(config.JWTSecret()),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify resolves a bearer token to an Identity.
// Invalid or expired tokens yield an Unauthorized error; a transport
// failure talking to the auth service yields Unavailable.
func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperr.New(apperr.Unauthorized, "Missing bearer token")
	}

	if c.mode == "local" {
		return c.verifyLocal(token)
	}
	return c.verifyRemote(ctx, token)
}

func (c *Client) verifyRemote(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Internal, err, "auth request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Unavailable, err, "Authentication service unavailable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Identity{}, apperr.New(apperr.Unauthorized, "Invalid or expired token")
	case resp.StatusCode != http.StatusOK:
		return Identity{}, apperr.New(apperr.Unauthorized, "Could not validate credentials")
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, apperr.Wrap(apperr.Unavailable, err, "Authentication service unavailable")
	}
	return id, nil
}

// localClaims is the JWT payload accepted in local mode.
type localClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

func (c *Client) verifyLocal(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &localClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Unauthorized, err, "Invalid or expired token")
	}

	claims, ok := parsed.Claims.(*localClaims)
	if !ok || !parsed.Valid {
		return Identity{}, apperr.New(apperr.Unauthorized, "Invalid or expired token")
	}

	return Identity{
		ID:          claims.UserID,
		Email:       claims.Email,
		IsActive:    true,
		IsSuperuser: claims.IsSuperuser,
	}, nil
}

// SignLocal mints a local-mode token for the identity. Dev/test helper.
func (c *Client) SignLocal(id Identity, ttl time.Duration) (string, error) {
	claims := localClaims{
		UserID:      id.ID,
		Email:       id.Email,
		IsSuperuser: id.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// ── Context plumbing ─────────────────────────────────────────────────────────

type ctxKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the identity stored by the Auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
