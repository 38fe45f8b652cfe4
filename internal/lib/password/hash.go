// Package password реализует хеширование, проверку и требования к сложности паролей.
package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Cost стоимость bcrypt для новых хэшей.
const Cost = 12

// MinLength минимальная длина пароля.
const MinLength = 8

const specialChars = "!@#$%^&*"

var (
	// ErrTooShort пароль короче MinLength символов.
	ErrTooShort = errors.New("password must be at least 8 characters long")
	// ErrTooWeak пароль не содержит нужных классов символов.
	ErrTooWeak = errors.New("password must contain at least one uppercase letter, one lowercase letter, one number and one special character")
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckStrength проверяет, что пароль не короче MinLength и содержит
// строчную и заглавную буквы, цифру и спецсимвол.
func CheckStrength(password string) error {
	if len([]rune(password)) < MinLength {
		return ErrTooShort
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrTooWeak
	}
	return nil
}
