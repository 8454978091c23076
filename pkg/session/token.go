package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the front-desk operator driving a board.
type Claims struct {
	jwt.RegisteredClaims

	Name    string `json:"name,omitempty"`
	HotelID int64  `json:"hotel_id,omitempty"` // operator's default hotel, 0 = all
}

type Operator struct {
	UserID    int64
	Name      string
	HotelID   int64
	ExpiresAt time.Time
}

// Verify checks an HS256 operator token and returns the operator it names.
// The user id travels in the subject claim.
func Verify(tokenString, secret, audience string, now time.Time) (*Operator, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing session secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, fmt.Errorf("token expired")
	}
	if audience != "" && !audContains(claims.Audience, audience) {
		return nil, fmt.Errorf("audience mismatch")
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return nil, fmt.Errorf("missing user in token")
	}

	return &Operator{
		UserID:    uid,
		Name:      claims.Name,
		HotelID:   claims.HotelID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Mint signs an operator token. Used by the dev tooling and tests.
func Mint(op Operator, secret, issuer, audience string, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing session secret")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(op.UserID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:    op.Name,
		HotelID: op.HotelID,
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func audContains(aud []string, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
