package models

import "time"

// Lesson принадлежит ровно одному курсу и удаляется вместе с ним.
// Владелец урока задаётся отдельно от владельца курса.
type Lesson struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     *string   `json:"preview,omitempty"`
	VideoURL    *string   `json:"video_url,omitempty"`
	Owner       int64     `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnerID возвращает идентификатор владельца урока.
func (l *Lesson) OwnerID() int64 { return l.Owner }

// LessonInput — тело запроса на создание и полное обновление урока.
type LessonInput struct {
	CourseID    int64   `json:"course" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Preview     *string `json:"preview,omitempty" validate:"omitempty,max=255"`
	VideoURL    *string `json:"video_url,omitempty" validate:"omitempty,max=200,youtube"`
}

// LessonPatch — частичное обновление урока.
type LessonPatch struct {
	CourseID    *int64  `json:"course,omitempty" validate:"omitempty,gt=0"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Preview     *string `json:"preview,omitempty" validate:"omitempty,max=255"`
	VideoURL    *string `json:"video_url,omitempty" validate:"omitempty,max=200,youtube"`
}

// LessonFilter ограничивает выборку уроков владельцем и/или курсом.
type LessonFilter struct {
	OwnerID  *int64
	CourseID *int64
	ListParams
}
