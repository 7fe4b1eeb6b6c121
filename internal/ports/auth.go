package ports

import (
	"context"

	"github.com/opsdeskhq/opsdesk/internal/domain/session"
)

// Grant is the credential material a successful login yields.
type Grant struct {
	Token string
	User  session.User
}

// AuthClient performs the backend authentication calls. Implementations
// translate transport failures into errors; policy (what to persist, what
// to log) belongs to the session manager.
type AuthClient interface {
	// Login exchanges credentials for a token and an identity snapshot.
	Login(ctx context.Context, email, password string) (Grant, error)

	// Register creates an account. It does not log the account in; callers
	// follow up with Login for a token.
	Register(ctx context.Context, email, password string) error
}
