package api

import (
	"context"
	"fmt"

	apperrors "github.com/opsdeskhq/opsdesk/internal/errors"
	"github.com/opsdeskhq/opsdesk/internal/ports"
)

var _ ports.AuthClient = (*Client)(nil)

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type grantPayload struct {
	Token string `json:"token"`
	User  struct {
		Email string `json:"email"`
	} `json:"user"`
}

type registeredPayload struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Login exchanges credentials for an access token and identity snapshot.
func (c *Client) Login(ctx context.Context, email, password string) (ports.Grant, error) {
	doc, err := Create[grantPayload](ctx, c, "/api/auth/login", credentialsPayload{Email: email, Password: password})
	if err != nil {
		return ports.Grant{}, fmt.Errorf("login: %w", err)
	}
	if doc.Token == "" {
		return ports.Grant{}, apperrors.Decode("login response missing token", nil)
	}
	grant := ports.Grant{Token: doc.Token}
	grant.User.Email = doc.User.Email
	if grant.User.Email == "" {
		grant.User.Email = email
	}
	return grant, nil
}

// Register creates an account; it deliberately does not log the account in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	_, err := Create[registeredPayload](ctx, c, "/api/auth/register", credentialsPayload{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}
