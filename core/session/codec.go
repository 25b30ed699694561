package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/user"
)

var (
	// ErrInvalidToken is the only error Verify returns: callers cannot tell which check failed.
	ErrInvalidToken = errors.New("invalid session token")

	ErrNoSecretKey = errors.New("session: empty secret key")

	errMalformed        = errors.New("malformed token")
	errInvalidSignature = errors.New("invalid token signature")
	errExpired          = errors.New("token expired")

	signingMethod = jwt.SigningMethodHS256
)

// Claims represents the session claims transmitted via the `token` cookie.
type Claims struct {
	Role user.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() string { return c.Subject }

// Codec issues and verifies signed session tokens.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time // mockable
}

func NewCodec(secret []byte, issuer string, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecretKey
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{
		secret: key,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue generates a signed token for the given user id and role.
func (c *Codec) Issue(userID string, role user.Role) (string, error) {
	if userID == "" || !role.Valid() {
		return "", errors.Errorf("issuing token: invalid identity (%q, %q)", userID, role)
	}

	now := c.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	ss, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify checks the token signature, structure and expiry.
func (c *Codec) Verify(token string) (Claims, error) {
	claims, err := c.verify(token)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Claims{}, errInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, errExpired
	default:
		return Claims{}, errMalformed
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return Claims{}, errMalformed
	}
	return claims, nil
}
