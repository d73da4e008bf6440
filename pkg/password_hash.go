package pkg

import "golang.org/x/crypto/bcrypt"

const (
	// PasswordHashCost is the bcrypt cost used for user passwords.
	PasswordHashCost = 12
	// MaxPasswordLength is the longest input bcrypt accepts, in bytes.
	MaxPasswordLength = 72
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return BytesToString(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
