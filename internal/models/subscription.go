package models

import "time"

// Subscription отмечает, что пользователь следит за курсом.
// Для пары (UserID, CourseID) существует не больше одной записи.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	CourseID  int64     `json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleResult — итог переключения подписки.
type ToggleResult string

const (
	// SubscriptionAdded — подписки не было, она создана.
	SubscriptionAdded ToggleResult = "added"
	// SubscriptionRemoved — подписка была и удалена.
	SubscriptionRemoved ToggleResult = "removed"
)

// ToggleRequest — тело POST /subscriptions/toggle/.
type ToggleRequest struct {
	CourseID *int64 `json:"course_id"`
}
