package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fieldhq/fieldhq/config"
	"github.com/fieldhq/fieldhq/errors"
)

// JWTClaims extends standard JWT claims with FieldHQ-specific fields
type JWTClaims struct {
	jwt.RegisteredClaims
	AdminID string `json:"uid"`
	Email   string `json:"email"`
}

// JWTManager handles JWT token creation and validation
type JWTManager struct {
	secret      []byte
	tokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager with the given configuration.
// An empty configured secret gets a securely generated one, which means
// tokens do not survive a restart; set FIELDHQ_JWT_SECRET for stable tokens.
func NewJWTManager(cfg *config.AuthConfig) (*JWTManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		generated, err := generateSecureSecret(32)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate JWT secret")
		}
		secret = generated
	}

	tokenExpiry, err := time.ParseDuration(cfg.TokenExpiry)
	if err != nil {
		tokenExpiry = 24 * time.Hour // Default
	}

	return &JWTManager{
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
	}, nil
}

// GenerateToken creates a new JWT access token for the given claims
func (m *JWTManager) GenerateToken(claims *Claims) (string, error) {
	now := time.Now()
	jwtClaims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "fieldhq",
		},
		AdminID: claims.AdminID,
		Email:   claims.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT access token
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}

	jwtClaims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid token")
	}

	return &Claims{
		AdminID: jwtClaims.AdminID,
		Email:   jwtClaims.Email,
	}, nil
}

// generateSecureSecret creates a cryptographically secure random secret
func generateSecureSecret(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
