// Package apperrors содержит сентинел-ошибки предметной области.
// Хранилище и сервисы оборачивают их через fmt.Errorf("%s: %w", op, err),
// а HTTP-слой переводит их в коды ответа (см. response.FromError).
package apperrors

import "errors"

var (
	// ErrValidation — некорректные или отсутствующие входные данные (400).
	ErrValidation = errors.New("validation error")
	// ErrUnauthenticated — нет или неверные учётные данные (401).
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden — пользователь аутентифицирован, но действие запрещено (403).
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound — ресурс не найден (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict — нарушение уникальности (409).
	ErrConflict = errors.New("already exists")
	// ErrExternalService — ошибка платёжного провайдера (502).
	ErrExternalService = errors.New("external service error")
)

// Validation возвращает ошибку валидации с человекочитаемым сообщением.
func Validation(msg string) error {
	return &messageError{msg: msg, kind: ErrValidation}
}

// NotFound возвращает ErrNotFound с уточнением, что именно не найдено.
func NotFound(msg string) error {
	return &messageError{msg: msg, kind: ErrNotFound}
}

// Unauthenticated возвращает ErrUnauthenticated с пояснением для клиента.
func Unauthenticated(msg string) error {
	return &messageError{msg: msg, kind: ErrUnauthenticated}
}

// Conflict возвращает ErrConflict с описанием нарушенной уникальности.
func Conflict(msg string) error {
	return &messageError{msg: msg, kind: ErrConflict}
}

// Forbidden возвращает ErrForbidden с пояснением.
func Forbidden(msg string) error {
	return &messageError{msg: msg, kind: ErrForbidden}
}

type messageError struct {
	msg  string
	kind error
}

func (e *messageError) Error() string { return e.msg }

func (e *messageError) Unwrap() error { return e.kind }

// Message извлекает сообщение для клиента: текст первой в цепочке
// messageError, либо текст сентинел-ошибки.
func Message(err error) string {
	var me *messageError
	if errors.As(err, &me) {
		return me.msg
	}
	for _, s := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict, ErrExternalService} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
