package jwt

import (
	"time"

	"cardmud/server/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer marks tokens minted by this server; the API middleware rejects
// tokens issued by anything else sharing the secret.
const Issuer = "cardmud"

// TokenTTL keeps API tokens short-lived relative to the accounts
// themselves; the MUD login is the durable credential.
const TokenTTL = 72 * time.Hour

// GenerateToken mints an API token for a user ID.
func GenerateToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": Issuer,
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}
