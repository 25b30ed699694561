package session

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/user"
)

// CookieName is the name of the cookie carrying the session token.
const CookieName = "token"

type UserFinder interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Resolver resolves the user behind a request's session cookie.
type Resolver struct {
	codec *Codec
	users UserFinder
}

func NewResolver(codec *Codec, users UserFinder) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// CurrentUser returns the user owning req's session, or nil when there is none.
// A missing, invalid or expired token, or a token whose user no longer exists, is not an error.
// Errors are only returned when the user lookup itself fails.
func (r *Resolver) CurrentUser(ctx context.Context, req *http.Request) (*user.User, error) {
	cookie, err := req.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := r.codec.Verify(cookie.Value)
	if err != nil {
		return nil, nil
	}

	usr, err := r.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "finding user by ID")
	}
	return &usr, nil
}
