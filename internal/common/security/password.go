package security

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt hash. Every call generates a fresh
// salt, so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether the password matches the stored hash.
// Malformed hashes compare as false rather than erroring.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
