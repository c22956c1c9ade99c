package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
)

type resource struct{ owner int64 }

func (r resource) OwnerID() int64 { return r.owner }

var (
	owner     = &Actor{ID: 1, Email: "owner@test.com"}
	stranger  = &Actor{ID: 2, Email: "other@test.com"}
	moderator = &Actor{ID: 3, Email: "moderator@test.com", Moderator: true}
	owned     = resource{owner: 1}
)

func TestIsOwnerAndModerator(t *testing.T) {
	assert.True(t, IsOwner(owner, owned))
	assert.False(t, IsOwner(stranger, owned))
	assert.False(t, IsOwner(nil, owned))
	assert.False(t, IsOwner(owner, nil))

	assert.True(t, IsModerator(moderator))
	assert.False(t, IsModerator(owner))
	assert.False(t, IsModerator(nil))
}

func TestCheckCatalog(t *testing.T) {
	checks := map[string]func(*Actor, Action, Owned) error{
		"course": CheckCourse,
		"lesson": CheckLesson,
	}

	tests := []struct {
		name    string
		actor   *Actor
		action  Action
		res     Owned
		wantErr error
	}{
		{"anonymous list", nil, ActionList, nil, apperrors.ErrUnauthenticated},
		{"user list", stranger, ActionList, nil, nil},
		{"moderator list", moderator, ActionList, nil, nil},
		{"user create", owner, ActionCreate, nil, nil},
		{"moderator create", moderator, ActionCreate, nil, apperrors.ErrForbidden},
		{"owner retrieve", owner, ActionRetrieve, owned, nil},
		{"moderator retrieve", moderator, ActionRetrieve, owned, nil},
		{"stranger retrieve", stranger, ActionRetrieve, owned, apperrors.ErrForbidden},
		{"owner update", owner, ActionUpdate, owned, nil},
		{"moderator partial update", moderator, ActionPartialUpdate, owned, nil},
		{"stranger update", stranger, ActionUpdate, owned, apperrors.ErrForbidden},
		{"owner destroy", owner, ActionDestroy, owned, nil},
		{"moderator destroy", moderator, ActionDestroy, owned, apperrors.ErrForbidden},
		{"stranger destroy", stranger, ActionDestroy, owned, apperrors.ErrForbidden},
		{"destroy precheck", moderator, ActionDestroy, nil, nil},
		{"unknown action", owner, Action("publish"), owned, apperrors.ErrForbidden},
	}

	for kind, check := range checks {
		for _, tt := range tests {
			t.Run(kind+"/"+tt.name, func(t *testing.T) {
				err := check(tt.actor, tt.action, tt.res)
				if tt.wantErr == nil {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	}
}

func TestCheckUserResource(t *testing.T) {
	self := resource{owner: 2}

	tests := []struct {
		name    string
		actor   *Actor
		action  Action
		res     Owned
		wantErr error
	}{
		{"anonymous", nil, ActionRetrieve, self, apperrors.ErrUnauthenticated},
		{"moderator create", moderator, ActionCreate, nil, apperrors.ErrForbidden},
		{"user create", stranger, ActionCreate, nil, nil},
		{"owner destroy", stranger, ActionDestroy, self, nil},
		{"owner update", stranger, ActionUpdate, self, nil},
		{"moderator retrieve", moderator, ActionRetrieve, self, nil},
		{"moderator list", moderator, ActionList, nil, nil},
		{"moderator update", moderator, ActionUpdate, self, nil},
		{"moderator partial update", moderator, ActionPartialUpdate, self, nil},
		{"moderator destroy", moderator, ActionDestroy, self, apperrors.ErrForbidden},
		{"stranger retrieve", owner, ActionRetrieve, self, apperrors.ErrForbidden},
		{"stranger destroy", owner, ActionDestroy, self, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUserResource(tt.actor, tt.action, tt.res)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckPayment(t *testing.T) {
	assert.NoError(t, CheckPayment(owner, ActionCreate, nil))
	assert.NoError(t, CheckPayment(owner, ActionRetrieve, owned))
	assert.NoError(t, CheckPayment(moderator, ActionRetrieve, owned))
	assert.ErrorIs(t, CheckPayment(stranger, ActionRetrieve, owned), apperrors.ErrForbidden)
	assert.ErrorIs(t, CheckPayment(owner, ActionDestroy, owned), apperrors.ErrForbidden)
}

func TestOwnerScope(t *testing.T) {
	assert.Nil(t, OwnerScope(moderator))
	scope := OwnerScope(owner)
	if assert.NotNil(t, scope) {
		assert.Equal(t, int64(1), *scope)
	}
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ActorFrom(ctx))

	ctx = WithActor(ctx, owner)
	assert.Equal(t, owner, ActorFrom(ctx))
}
