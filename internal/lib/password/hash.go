// Package password хеширует пароли пользователей через bcrypt и сверяет их при входе.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch возвращается, когда пароль не соответствует хэшу.
	ErrMismatch = errors.New("password does not match")
	// ErrTooLong возвращается для паролей длиннее 72 байт, которые bcrypt не принимает.
	ErrTooLong = errors.New("password must be at most 72 bytes long")
)

// Hash возвращает bcrypt-хэш пароля.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сверяет пароль с хэшем. Несовпадение даёт ErrMismatch,
// повреждённый хэш возвращается как обычная ошибка.
func Compare(hash, password string) error {
	const op = "password.Compare"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
