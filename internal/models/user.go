// Package models содержит доменные структуры сервиса подписок на журналы:
// пользователей, каталог (журналы и планы), подписки и события их жизненного цикла,
// а также структуры для приёма данных из JSON-запросов.
package models

// User представляет зарегистрированного пользователя системы.
// Пароль хранится только в виде bcrypt-хэша и наружу не отдаётся.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Credentials используется для приёма логина и пароля из JSON-запроса.
type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyUser используется для приёма данных регистрации из JSON-запроса.
type DummyUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"required,email"`
}
