package auth

import (
	"context"
	"errors"
	"time"

	"videocall-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier resolves a bearer credential to an identity, or fails.
// Two implementations exist: Manager (local HS256 verification against the
// shared secret) and RemoteVerifier (round-trip to the identity service).
// Both satisfy the same contract so the middleware does not care which is wired.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

var ErrInvalidToken = errors.New("auth: invalid token")

// Manager verifies (and for tests and local development, issues) signed
// bearer tokens against a shared secret.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	tokenTTL time.Duration

	// now is injectable for deterministic tests.
	now func() time.Time
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		tokenTTL: ttl,
		now:      time.Now,
	}, nil
}

/* ===================== VERIFY TOKEN ===================== */

func (m *Manager) Verify(_ context.Context, tokenString string) (Identity, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(m.now),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	validator := jwt.NewValidator(opts...)
	if err := validator.Validate(claims.RegisteredClaims); err != nil {
		return Identity{}, err
	}

	if claims.UserID == "" {
		return Identity{}, errors.New("user_id missing")
	}
	if claims.Role == "" {
		return Identity{}, errors.New("role missing")
	}

	return claims.Identity(), nil
}

/* ===================== ISSUE TOKEN ===================== */

// Issue signs a token carrying the given identity.
// Token issuance belongs to the identity service; this exists for tests and
// for the local-dev login route.
func (m *Manager) Issue(now time.Time, id Identity) (string, error) {
	if id.ID == "" || id.Role == "" {
		return "", errors.New("identity id and role are required")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			ID:        uuid.NewString(),
		},
		UserID: id.ID,
		Role:   id.Role,
		Email:  id.Email,
		Name:   id.Name,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
