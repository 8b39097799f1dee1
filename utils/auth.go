// utils/auth.go
package utils

import (
	"math/rand"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a plaintext password against its bcrypt hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRegNumber produces a random 6-digit registration number. The
// unique index on users.regNumber is the sole arbiter of collisions;
// callers retry on duplicate-key insert errors.
func GenerateRegNumber() string {
	digits := "0123456789"
	b := make([]byte, 6)
	b[0] = digits[1+rand.Intn(9)] // no leading zero
	for i := 1; i < len(b); i++ {
		b[i] = digits[rand.Intn(10)]
	}
	return string(b)
}
