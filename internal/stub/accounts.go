package stub

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	errAccountExists      = errors.New("an account with this email already exists")
	errInvalidCredentials = errors.New("invalid email or password")
	errInvalidToken       = errors.New("invalid token")
)

// account is a stub login. Real deployments authenticate against the
// corporate IdP; the stub only needs enough state to mint tokens.
type account struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	hash  []byte
}

// accountStore keeps registered accounts in memory, keyed by lowercased
// email. Passwords are stored as bcrypt hashes even here so the login path
// exercises the same comparison the real backend performs.
type accountStore struct {
	mu      sync.Mutex
	next    int
	byEmail map[string]account
}

func newAccountStore() *accountStore {
	return &accountStore{next: 1, byEmail: make(map[string]account)}
}

// Register hashes the password and stores the account. Emails compare
// case-insensitively.
func (s *accountStore) Register(email, password string) (account, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return account{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[key]; ok {
		return account{}, errAccountExists
	}
	acct := account{ID: s.next, Email: key, hash: hash}
	s.next++
	s.byEmail[key] = acct
	return acct, nil
}

// Verify checks credentials and returns the matching account. Unknown
// emails and wrong passwords fail identically.
func (s *accountStore) Verify(email, password string) (account, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	acct, ok := s.byEmail[key]
	s.mu.Unlock()
	if !ok {
		return account{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return account{}, errInvalidCredentials
	}
	return acct, nil
}

// tokenIssuer mints and verifies the HS256 bearer tokens login hands out.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Mint signs a token for the given subject email.
func (t *tokenIssuer) Mint(subject string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iss": "opsdesk-stub",
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns its subject email.
func (t *tokenIssuer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return "", errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", errInvalidToken
	}
	return subject, nil
}
