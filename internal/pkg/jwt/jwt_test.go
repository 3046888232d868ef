package jwt

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestSignAndParse(t *testing.T) {
	c := qt.New(t)
	SetSecret("unit-test-secret")

	token, err := Sign("user-1", "session-1", time.Hour)
	c.Assert(err, qt.IsNil)

	claims, err := Parse(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.UserID, qt.Equals, "user-1")
	c.Assert(claims.SessionID, qt.Equals, "session-1")
}

func TestParseRejects(t *testing.T) {
	SetSecret("unit-test-secret")

	expired, err := Sign("user-1", "s", -time.Minute)
	qt.Assert(t, err, qt.IsNil)

	foreign, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{UserID: "user-1"}).
		SignedString([]byte("other-secret"))
	qt.Assert(t, err, qt.IsNil)

	anonymous, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{}).
		SignedString([]byte("unit-test-secret"))
	qt.Assert(t, err, qt.IsNil)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"expired":      expired,
		"wrong secret": foreign,
		"missing user": anonymous,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(token)
			qt.Assert(t, errors.Is(err, ErrInvalidToken), qt.IsTrue)
		})
	}
}
