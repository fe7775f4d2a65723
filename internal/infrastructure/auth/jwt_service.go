package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/neuraread/domain"
)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// sessionClaims is the signed payload. token_version ties the token to the
// user's current version; bumping the version revokes it.
type sessionClaims struct {
	UserID       uint `json:"user_id"`
	TokenVersion int  `json:"token_version"`
	jwt.RegisteredClaims
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, ttl time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateToken(userID uint, tokenVersion int) (string, error) {
	now := j.now()
	claims := sessionClaims{
		UserID:       userID,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			ID:        j.generateJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateToken implements domain.TokenService. Every failure, expiry
// included, collapses to domain.ErrInvalidToken.
func (j *JWTServiceImpl) ValidateToken(tokenString string) (*domain.TokenClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrMissingToken
	}

	var claims sessionClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		UserID:       claims.UserID,
		TokenVersion: claims.TokenVersion,
		ID:           claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}

// TTL implements domain.TokenService
func (j *JWTServiceImpl) TTL() time.Duration {
	return j.ttl
}
