package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost pins the work factor so a library default change never silently
// alters hashing behavior.
const bcryptCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash from a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}

// CheckPasswordHash reports whether the plaintext password matches the hash.
// Mismatch and malformed hash both report false.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
