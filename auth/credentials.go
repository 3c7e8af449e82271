package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"photolabel/apperror"
	"photolabel/models"
)

// UserFinder is the part of the identity store the credential checks need
type UserFinder interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Credentials turns passwords and bearer tokens into users
type Credentials struct {
	users  UserFinder
	tokens *Tokens
	log    *zap.Logger
}

func NewCredentials(users UserFinder, tokens *Tokens, log *zap.Logger) *Credentials {
	return &Credentials{users: users, tokens: tokens, log: log.Named("credentials")}
}

// Authenticate checks a username/password pair. Unknown users and wrong passwords fail the same way.
func (c *Credentials) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := c.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if user == nil || !CheckPassword(user.HashedPassword, password) {
		return nil, apperror.ErrUnauthenticated.WithMessage("Incorrect username or password")
	}
	return user, nil
}

// IssueToken returns a bearer token for user
func (c *Credentials) IssueToken(user *models.User) (string, error) {
	token, err := c.tokens.Issue(user.Username)
	if err != nil {
		return "", apperror.ErrInternal.WithInternal(err)
	}
	return token, nil
}

// Resolve maps a bearer token to the user it names
func (c *Credentials) Resolve(ctx context.Context, token string) (*models.User, error) {
	username, err := c.tokens.Subject(token)
	if err != nil {
		c.log.Debug("token rejected", zap.Error(err))
		return nil, apperror.ErrUnauthenticated
	}
	user, err := c.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if user == nil {
		return nil, apperror.ErrUnauthenticated
	}
	return user, nil
}

// RequireActive rejects users whose account has been deactivated
func RequireActive(user *models.User) (*models.User, error) {
	if !user.IsActive {
		return nil, apperror.ErrInactiveAccount
	}
	return user, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
