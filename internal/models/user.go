// Package models содержит доменные структуры LMS: пользователей, курсы, уроки,
// подписки на курсы и платежи, а также входные DTO, которые приходят из
// JSON-запросов и проверяются валидатором до передачи в сервисы.
package models

import "time"

// User представляет зарегистрированного пользователя. Идентификатор входа — email.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	City         *string   `json:"city,omitempty"`
	Avatar       *string   `json:"avatar,omitempty"` // ссылка на файл во внешнем хранилище
	IsActive     bool      `json:"is_active"`
	Groups       []string  `json:"groups"`
	CreatedAt    time.Time `json:"created_at"`
}

// OwnerID нужен для проверок владения: пользователь владеет своей записью.
func (u *User) OwnerID() int64 { return u.ID }

// InGroup сообщает, состоит ли пользователь в группе name.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// UserInput используется при регистрации и создании пользователя.
type UserInput struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=50"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}

// UserPatch — частичное обновление профиля; nil означает «не менять».
// Для PUT обработчик требует присутствия email.
type UserPatch struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=50"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}

// ListParams — параметры limit/offset пагинации.
type ListParams struct {
	Limit  int
	Offset int
}
