package auth

import (
	"errors"

	"cardmud/server/internal/database"
	"cardmud/server/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrBadCredentials covers both an unknown name and a wrong password,
// so login failures do not leak which one it was.
var ErrBadCredentials = errors.New("bad credentials")

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Authenticate looks a user up by name and verifies the password.
func Authenticate(name, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &user, nil
}
