// Package access — слой принятия решений о доступе. Все функции чистые:
// по (пользователь, действие, ресурс) они возвращают nil либо
// apperrors.ErrUnauthenticated / apperrors.ErrForbidden.
//
// Проверка выполняется в двух точках. До загрузки объекта вызывается Check*
// с res == nil (уровень коллекции: создание, список). После загрузки объекта
// для retrieve/update/destroy вызывается Check* с самим объектом. Списки
// дополнительно сужаются через OwnerScope.
package access

import (
	"context"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
)

// Action — действие над ресурсом.
type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Actor — аутентифицированный пользователь запроса. Признак модератора
// вычисляется один раз при аутентификации по членству в группе модераторов.
type Actor struct {
	ID        int64
	Email     string
	Moderator bool
}

// Owned — ресурс с владельцем.
type Owned interface {
	OwnerID() int64
}

type rule func(a *Actor, res Owned) bool

// IsModerator — true, если пользователь состоит в группе модераторов.
func IsModerator(a *Actor) bool {
	return a != nil && a.Moderator
}

// IsOwner — true, если res.owner == a.id.
func IsOwner(a *Actor, res Owned) bool {
	return a != nil && res != nil && res.OwnerID() == a.ID
}

func authenticated(_ *Actor, _ Owned) bool { return true }

func notModerator(a *Actor, _ Owned) bool { return !IsModerator(a) }

func ownerOrModerator(a *Actor, res Owned) bool {
	return res == nil || IsOwner(a, res) || IsModerator(a)
}

func ownerOnly(a *Actor, res Owned) bool {
	return res == nil || IsOwner(a, res)
}

// Update курса проверяется на уровне объекта так же, как у урока:
// владелец или модератор.
var courseRules = map[Action]rule{
	ActionList:          authenticated,
	ActionRetrieve:      ownerOrModerator,
	ActionCreate:        notModerator,
	ActionUpdate:        ownerOrModerator,
	ActionPartialUpdate: ownerOrModerator,
	ActionDestroy:       ownerOnly,
}

var lessonRules = map[Action]rule{
	ActionList:          authenticated,
	ActionRetrieve:      ownerOrModerator,
	ActionCreate:        notModerator,
	ActionUpdate:        ownerOrModerator,
	ActionPartialUpdate: ownerOrModerator,
	ActionDestroy:       ownerOnly,
}

var paymentRules = map[Action]rule{
	ActionList:     authenticated,
	ActionRetrieve: ownerOrModerator,
	ActionCreate:   authenticated,
}

// CheckCourse проверяет действие над курсом.
func CheckCourse(a *Actor, action Action, res Owned) error {
	return check(courseRules, a, action, res)
}

// CheckLesson проверяет действие над уроком.
func CheckLesson(a *Actor, action Action, res Owned) error {
	return check(lessonRules, a, action, res)
}

// CheckPayment проверяет действие над платежом. Платежи не изменяются
// и не удаляются через API.
func CheckPayment(a *Actor, action Action, res Owned) error {
	return check(paymentRules, a, action, res)
}

// CheckUserResource — правило для эндпоинтов /users/: модератору запрещено
// создавать; владелец может всё; модератор может list/retrieve/update/partial_update,
// но не destroy; остальным запрещено.
func CheckUserResource(a *Actor, action Action, res Owned) error {
	if a == nil {
		return apperrors.ErrUnauthenticated
	}
	if action == ActionCreate {
		if IsModerator(a) {
			return apperrors.ErrForbidden
		}
		return nil
	}
	if res == nil || IsOwner(a, res) {
		return nil
	}
	if IsModerator(a) {
		switch action {
		case ActionList, ActionRetrieve, ActionUpdate, ActionPartialUpdate:
			return nil
		}
	}
	return apperrors.ErrForbidden
}

func check(rules map[Action]rule, a *Actor, action Action, res Owned) error {
	if a == nil {
		return apperrors.ErrUnauthenticated
	}
	allow, ok := rules[action]
	if !ok || !allow(a, res) {
		return apperrors.ErrForbidden
	}
	return nil
}

// OwnerScope возвращает фильтр владельца для списков: nil для модератора
// (видит всё), иначе идентификатор самого пользователя.
func OwnerScope(a *Actor) *int64 {
	if a == nil || a.Moderator {
		return nil
	}
	id := a.ID
	return &id
}

type ctxKey struct{}

// WithActor кладёт пользователя в контекст запроса.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom достаёт пользователя из контекста; nil для анонимного запроса.
func ActorFrom(ctx context.Context) *Actor {
	a, _ := ctx.Value(ctxKey{}).(*Actor)
	return a
}
