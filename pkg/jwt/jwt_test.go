package jwt

import (
	"testing"
	"time"

	"cardmud/server/internal/config"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	signed, err := GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken error = %v", err)
	}

	token, err := gojwt.Parse(signed, func(token *gojwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, gojwt.WithIssuer(Issuer))
	if err != nil || !token.Valid {
		t.Fatalf("token does not parse: %v", err)
	}

	claims := token.Claims.(gojwt.MapClaims)
	if sub, ok := claims["sub"].(float64); !ok || uint(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp = %v", claims["exp"])
	}
	want := time.Now().Add(TokenTTL).Unix()
	if got := int64(exp); got < want-60 || got > want+60 {
		t.Fatalf("exp = %d, want about %d", got, want)
	}

	// A token from some other issuer sharing the secret is rejected.
	other := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"iss": "somewhere-else",
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	otherSigned, err := other.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing error = %v", err)
	}
	if _, err := gojwt.Parse(otherSigned, func(token *gojwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, gojwt.WithIssuer(Issuer)); err == nil {
		t.Fatal("foreign issuer accepted")
	}
}
