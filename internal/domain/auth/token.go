package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/lwalter/authgate/internal/domain/user"
)

// TokenPair is one issuance: a short-lived access token and a long-lived
// refresh token signed from the same payload with independent secrets.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer signs access and refresh tokens. Signing is stateless, so one
// Issuer is safe for concurrent use.
type Issuer struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

// NewIssuer creates an Issuer from the two signing secrets and lifetimes
func NewIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, issuer string) (*Issuer, error) {
	accessKey, err := jwk.Import(accessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to import access secret: %w", err)
	}

	refreshKey, err := jwk.Import(refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to import refresh secret: %w", err)
	}

	return &Issuer{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     issuer,
	}, nil
}

// RefreshTTL returns the configured refresh token lifetime
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Issue signs a token pair for the user. Neither token is returned unless
// both signings succeed.
func (i *Issuer) Issue(userID, email string, role user.Role) (*TokenPair, error) {
	now := time.Now()

	access, err := i.sign(userID, email, role, i.accessKey, now, now.Add(i.accessTTL))
	if err != nil {
		return nil, err
	}

	refresh, err := i.sign(userID, email, role, i.refreshKey, now, now.Add(i.refreshTTL))
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(userID, email string, role user.Role, key jwk.Key, now, exp time.Time) (string, error) {
	// The jti keeps tokens unique even when two issuances for the same user
	// land in the same second, which the session store's unique token index
	// depends on
	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Subject(userID).
		Issuer(i.issuer).
		IssuedAt(now).
		Expiration(exp).
		Claim("email", email).
		Claim("role", string(role)).
		Build()
	if err != nil {
		return "", err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	if err != nil {
		return "", err
	}

	return string(signed), nil
}

// Claims are the verified contents of an access token
type Claims struct {
	UserID string
	Email  string
	Role   user.Role
}

// VerifyAccess checks the signature and validity of an access token and
// extracts its claims. Refresh tokens do not verify here: they are signed
// with a different secret.
func (i *Issuer) VerifyAccess(tokenString string) (*Claims, error) {
	verified, err := jwt.Parse([]byte(tokenString), jwt.WithKey(jwa.HS256(), i.accessKey))
	if err != nil {
		return nil, err
	}

	sub, ok := verified.Subject()
	if !ok || sub == "" {
		return nil, fmt.Errorf("token missing subject claim")
	}

	claims := &Claims{UserID: sub}

	var email string
	if err := verified.Get("email", &email); err == nil {
		claims.Email = email
	}

	var role string
	if err := verified.Get("role", &role); err == nil {
		claims.Role = user.Role(role)
	}

	return claims, nil
}
