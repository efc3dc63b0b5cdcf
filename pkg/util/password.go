package util

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

const (
	PasswordMinLength = 8
	PasswordMaxLength = 16
)

var (
	ErrPasswordLength     = errors.New("password must be between 8 and 16 characters")
	ErrPasswordComplexity = errors.New("password must contain at least one uppercase letter and one special character")
)

// HashPassword hashes a plain text password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password.
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePasswordPolicy enforces the platform password policy before hashing:
// 8-16 characters, at least one uppercase letter and one special character.
func ValidatePasswordPolicy(password string) error {
	length := len([]rune(password))
	if length < PasswordMinLength || length > PasswordMaxLength {
		return ErrPasswordLength
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasSpecial {
		return ErrPasswordComplexity
	}
	return nil
}
