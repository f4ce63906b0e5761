// Package models содержит структуры данных учётных записей.
package models

import "time"

// Account учётная запись, как она хранится в базе данных.
type Account struct {
	ID            int
	Name          string
	Email         string
	PasswordHash  string
	IsActive      bool
	CreatedDate   time.Time
	LastLoginDate *time.Time
}

// AccountResponse представление учётной записи для ответа API.
// Хэш пароля наружу не отдается.
type AccountResponse struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	IsActive      bool       `json:"is_active"`
	CreatedDate   time.Time  `json:"created_date"`
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`
}

// ToResponse преобразует учётную запись в структуру ответа.
func ToResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		IsActive:      a.IsActive,
		CreatedDate:   a.CreatedDate,
		LastLoginDate: a.LastLoginDate,
	}
}

// AccountPatch частичное обновление: nil-поле означает "не менять".
type AccountPatch struct {
	Name     *string
	NewEmail *string
	Password *string
	IsActive *bool
}

// IsEmpty сообщает, что ни одно поле не задано.
func (p AccountPatch) IsEmpty() bool {
	return p.Name == nil && p.NewEmail == nil && p.Password == nil && p.IsActive == nil
}
