package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

// refreshTokenBytes is the raw length of an issued refresh token.
const refreshTokenBytes = 64

// AccessClaims is the payload of an issued bearer token.
type AccessClaims struct {
	// UniqueName carries the account name.
	UniqueName string `json:"unique_name"`
	// DisplayName carries the human-readable name.
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer mints signed bearer tokens from validated identities.
type TokenIssuer struct {
	cfg config.Token
}

// NewTokenIssuer creates an issuer from the token configuration.
func NewTokenIssuer(cfg config.Token) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// Issue returns an HS256 access token, an opaque refresh token and the
// access token expiry.
//
// The refresh token is generated here but not persisted or checked anywhere
// in this subsystem; a future rotation mechanism would own its storage.
func (i *TokenIssuer) Issue(user *models.User) (accessToken, refreshToken string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(i.cfg.ExpiryTime.Duration)

	claims := AccessClaims{
		UniqueName:  user.Account,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	buf := make([]byte, refreshTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to draw refresh token: %w", err)
	}

	refreshToken = base64.StdEncoding.EncodeToString(buf)

	return accessToken, refreshToken, expiresAt, nil
}

// Parse validates signature, expiry, issuer and audience of an access token
// and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (interface{}, error) {
			return []byte(i.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	return claims, nil
}

// UserID returns the numeric subject of the claims.
func (c *AccessClaims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed token subject: %w", err)
	}

	return id, nil
}
