// Package request разбирает общие части HTTP-запросов: тело JSON,
// идентификатор ресурса из URL и параметры пагинации limit/offset.
package request

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/models"
)

const (
	// DefaultLimit — размер страницы, если limit не передан.
	DefaultLimit = 20
	// MaxLimit — верхняя граница limit.
	MaxLimit = 100
)

var (
	ErrEmptyBody  = errors.New("request body is empty")
	ErrBadBody    = errors.New("failed to decode request")
	ErrBadID      = errors.New("invalid id in url")
	ErrBadLimit   = errors.New("limit must be a positive integer")
	ErrBadOffset  = errors.New("offset must be a non-negative integer")
	ErrBadInteger = errors.New("query parameter must be a positive integer")
)

// DecodeJSON читает тело запроса в v.
func DecodeJSON(r *http.Request, v any) error {
	err := render.DecodeJSON(r.Body, v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return ErrBadBody
	}
	return nil
}

// ID возвращает положительный идентификатор из URL-параметра {id}.
func ID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadID
	}
	return id, nil
}

// Page читает limit и offset из query-строки.
func Page(r *http.Request) (models.ListParams, error) {
	p := models.ListParams{Limit: DefaultLimit}
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return p, ErrBadLimit
		}
		p.Limit = min(n, MaxLimit)
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, ErrBadOffset
		}
		p.Offset = n
	}
	return p, nil
}

// OptionalID читает необязательный положительный целый query-параметр.
func OptionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, ErrBadInteger
	}
	return &n, nil
}
