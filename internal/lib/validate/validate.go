// Package validate собирает валидатор go-playground с правилами LMS.
package validate

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// AllowedVideoHost — единственный домен, ссылки на который допускаются в уроках.
const AllowedVideoHost = "youtube.com"

// New возвращает валидатор с зарегистрированным тегом `youtube`.
// В сообщениях об ошибках поля называются по json-тегу.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	// ошибка возможна только при пустом имени тега
	_ = v.RegisterValidation("youtube", youtube)
	return v
}

// IsAllowedVideoURL — пустая ссылка допустима, непустая должна быть
// абсолютным URL и содержать youtube.com.
func IsAllowedVideoURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return strings.Contains(raw, AllowedVideoHost)
}

func youtube(fl validator.FieldLevel) bool {
	return IsAllowedVideoURL(fl.Field().String())
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
