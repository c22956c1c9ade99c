package models

import "time"

// Course — курс, у которого ровно один владелец.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     *string   `json:"preview,omitempty"`
	Owner       int64     `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnerID возвращает идентификатор владельца курса.
func (c *Course) OwnerID() int64 { return c.Owner }

// CourseDetail — курс вместе с уроками и признаком подписки текущего пользователя.
type CourseDetail struct {
	Course
	LessonsCount int       `json:"lessons_count"`
	Lessons      []*Lesson `json:"lessons"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// CourseInput — тело запроса на создание и полное обновление курса.
type CourseInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Preview     *string `json:"preview,omitempty" validate:"omitempty,max=255"`
}

// CoursePatch — частичное обновление курса.
type CoursePatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Preview     *string `json:"preview,omitempty" validate:"omitempty,max=255"`
}
