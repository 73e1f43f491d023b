package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"  // sentinel errors for token validation
    "strconv" // formats the numeric user ID as the subject claim
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned for any token that fails parsing,
// signature verification, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an access token.  userId and username are the
// fields clients decode; sub carries the same
// ID as a string for standard tooling.
type Claims struct {
    UserID   uint64 `json:"userId"`
    Username string `json:"username"`
    Role     string `json:"role,omitempty"`
    jwt.RegisteredClaims
}

// AccessToken represents a signed JWT access token along with its expiry.
// Exp is nil when the token was issued without an expiry.
type AccessToken struct {
    Token string     // the serialized JWT string
    Exp   *time.Time // the UTC expiration time, if any
}

// NewAccessToken builds and signs an HS256 JWT for a user.  A ttlMin of
// zero issues a token with no exp claim.
func NewAccessToken(secret string, userID uint64, username, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    claims := Claims{
        UserID:   userID,
        Username: username,
        Role:     role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:  strconv.FormatUint(userID, 10),
            IssuedAt: jwt.NewNumericDate(now),
        },
    }
    var exp *time.Time
    if ttlMin > 0 {
        e := now.Add(time.Duration(ttlMin) * time.Minute)
        exp = &e
        claims.ExpiresAt = jwt.NewNumericDate(e)
    }
    // Sign the token with the provided secret and obtain the string form.
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with the same secret used by
// NewAccessToken.  Only HMAC signing methods are accepted and the token
// must carry a non-zero userId.
func ParseAccessToken(secret, raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    if claims.UserID == 0 {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
