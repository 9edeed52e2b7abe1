package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/guttosm/packgenius/internal/i18n"
)

const (
	// AuthSubjectKey is the context key holding the authenticated subject.
	AuthSubjectKey ContextKey = "auth_subject"

	bearerPrefix = "Bearer "
)

// ErrMissingSecret is returned when a JWT is minted or verified without a key.
var ErrMissingSecret = errors.New("jwt secret key is not configured")

// JWTConfig configures bearer token validation.
type JWTConfig struct {
	// SecretKey signs and verifies HS256 tokens.
	SecretKey string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// JWTAuth returns a middleware that validates HS256 bearer tokens.
// Tokens are self-contained: no session store is consulted. The subject is
// stored under AuthSubjectKey for request logs and rate limiting.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := ParseToken(cfg, tokenString)
		if err != nil {
			_ = c.Error(err)
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(string(AuthSubjectKey), claims.Subject)
		c.Next()
	}
}

// ParseToken verifies tokenString and returns its registered claims.
func ParseToken(cfg JWTConfig, tokenString string) (*jwt.RegisteredClaims, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.SecretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// IssueToken mints an HS256 token for subject valid for ttl.
func IssueToken(cfg JWTConfig, subject string, ttl time.Duration) (string, error) {
	if cfg.SecretKey == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
}

// GetAuthSubject returns the authenticated subject, if any.
func GetAuthSubject(c *gin.Context) string {
	if v, ok := c.Get(string(AuthSubjectKey)); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
