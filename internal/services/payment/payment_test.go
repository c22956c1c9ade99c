package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/events"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *RepoMock) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *RepoMock) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreateProduct(ctx context.Context, name, description string) (string, error) {
	args := m.Called(ctx, name, description)
	return args.String(0), args.Error(1)
}

func (m *ProviderMock) CreatePrice(ctx context.Context, productID string, amountRUB int64) (string, error) {
	args := m.Called(ctx, productID, amountRUB)
	return args.String(0), args.Error(1)
}

func (m *ProviderMock) CreateCheckoutSession(ctx context.Context, priceID string) (*models.CheckoutSession, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutSession), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	payer     = &access.Actor{ID: 1, Email: "payer@example.com"}
	stranger  = &access.Actor{ID: 2, Email: "stranger@example.com"}
	moderator = &access.Actor{ID: 3, Email: "mod@example.com", Moderator: true}
)

func int64Ptr(v int64) *int64 { return &v }

func newService(repo *RepoMock, provider *ProviderMock, pub *PublisherMock) *Service {
	return New(repo, provider, pub, decimal.NewFromInt(95), newNoopLogger())
}

func TestCreate_WithCheckout(t *testing.T) {
	repo, provider, pub := new(RepoMock), new(ProviderMock), new(PublisherMock)

	repo.On("GetCourse", mock.Anything, int64(10)).
		Return(&models.Course{ID: 10, Title: "Go", Description: "Learn Go", Owner: 5}, nil).Once()
	provider.On("CreateProduct", mock.Anything, "Go", "Learn Go").Return("prod_1", nil).Once()
	provider.On("CreatePrice", mock.Anything, "prod_1", int64(95000)).Return("price_1", nil).Once()
	provider.On("CreateCheckoutSession", mock.Anything, "price_1").
		Return(&models.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"}, nil).Once()
	repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.UserID == payer.ID &&
			*p.PaidCourseID == 10 &&
			p.PaidLessonID == nil &&
			p.Amount.Equal(decimal.NewFromInt(10)) &&
			*p.SessionID == "cs_1" &&
			*p.PaymentURL == "https://checkout.stripe.com/cs_1"
	})).Return(&models.Payment{
		ID: 100, UserID: payer.ID, PaidCourseID: int64Ptr(10), Amount: decimal.NewFromInt(10),
		PaymentMethod: models.PaymentTransfer, PaymentDate: time.Now(),
	}, nil).Once()
	pub.On("Publish", mock.Anything, events.PaymentCreated, mock.AnythingOfType("events.PaymentCreatedEvent")).Return(nil).Once()

	p, err := newService(repo, provider, pub).Create(context.Background(), payer, models.PaymentInput{
		PaidCourseID:  int64Ptr(10),
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: models.PaymentTransfer,
		Checkout:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.ID)
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreate_ProviderFailureWritesNothing(t *testing.T) {
	repo, provider, pub := new(RepoMock), new(ProviderMock), new(PublisherMock)

	repo.On("GetLesson", mock.Anything, int64(20)).
		Return(&models.Lesson{ID: 20, Title: "Intro", Description: "Hello"}, nil).Once()
	provider.On("CreateProduct", mock.Anything, "Intro", "Hello").Return("prod_1", nil).Once()
	provider.On("CreatePrice", mock.Anything, "prod_1", int64(100225)).
		Return("", errors.Join(apperrors.ErrExternalService, errors.New("stripe: 500"))).Once()

	_, err := newService(repo, provider, pub).Create(context.Background(), payer, models.PaymentInput{
		PaidLessonID:  int64Ptr(20),
		Amount:        decimal.RequireFromString("10.55"),
		PaymentMethod: models.PaymentCash,
		Checkout:      true,
	})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
	repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_WithoutProvider(t *testing.T) {
	repo, pub := new(RepoMock), new(PublisherMock)
	repo.On("GetCourse", mock.Anything, int64(10)).Return(&models.Course{ID: 10, Title: "Go"}, nil).Once()

	svc := New(repo, nil, pub, decimal.NewFromInt(95), newNoopLogger())
	_, err := svc.Create(context.Background(), payer, models.PaymentInput{
		PaidCourseID: int64Ptr(10), Amount: decimal.NewFromInt(1), PaymentMethod: models.PaymentCash, Checkout: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
	repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCreate_PlainRecord(t *testing.T) {
	repo, provider, pub := new(RepoMock), new(ProviderMock), new(PublisherMock)

	repo.On("GetCourse", mock.Anything, int64(10)).Return(&models.Course{ID: 10, Title: "Go"}, nil).Once()
	repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.SessionID == nil && p.PaymentURL == nil
	})).Return(&models.Payment{ID: 1, UserID: payer.ID, Amount: decimal.NewFromInt(5)}, nil).Once()
	pub.On("Publish", mock.Anything, events.PaymentCreated, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := newService(repo, provider, pub).Create(context.Background(), payer, models.PaymentInput{
		PaidCourseID: int64Ptr(10), Amount: decimal.NewFromInt(5), PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)
	provider.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      models.PaymentInput
		setup   func(r *RepoMock)
		wantMsg string
	}{
		{
			name:    "neither course nor lesson",
			in:      models.PaymentInput{Amount: decimal.NewFromInt(1), PaymentMethod: models.PaymentCash},
			wantMsg: "exactly one of paid_course or paid_lesson must be set",
		},
		{
			name: "both course and lesson",
			in: models.PaymentInput{PaidCourseID: int64Ptr(1), PaidLessonID: int64Ptr(2),
				Amount: decimal.NewFromInt(1), PaymentMethod: models.PaymentCash},
			wantMsg: "exactly one of paid_course or paid_lesson must be set",
		},
		{
			name:    "zero amount",
			in:      models.PaymentInput{PaidCourseID: int64Ptr(1), Amount: decimal.Zero, PaymentMethod: models.PaymentCash},
			wantMsg: "amount must be positive",
		},
		{
			name: "three decimal places",
			in: models.PaymentInput{PaidCourseID: int64Ptr(1), Amount: decimal.RequireFromString("1.005"),
				PaymentMethod: models.PaymentCash},
			wantMsg: "amount: ensure that there are no more than 2 decimal places",
		},
		{
			name:    "unknown method",
			in:      models.PaymentInput{PaidCourseID: int64Ptr(1), Amount: decimal.NewFromInt(1), PaymentMethod: "card"},
			wantMsg: "payment_method must be one of: cash, transfer",
		},
		{
			name: "unknown course",
			in:   models.PaymentInput{PaidCourseID: int64Ptr(404), Amount: decimal.NewFromInt(1), PaymentMethod: models.PaymentCash},
			setup: func(r *RepoMock) {
				r.On("GetCourse", mock.Anything, int64(404)).Return(nil, apperrors.NotFound("course not found")).Once()
			},
			wantMsg: "course does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.setup != nil {
				tt.setup(repo)
			}
			_, err := newService(repo, new(ProviderMock), new(PublisherMock)).Create(context.Background(), payer, tt.in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, tt.wantMsg, apperrors.Message(err))
			repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
		})
	}
}

func TestList_Scoping(t *testing.T) {
	t.Run("payer sees own payments", func(t *testing.T) {
		repo := new(RepoMock)
		method := models.PaymentCash
		repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
			return f.UserID != nil && *f.UserID == payer.ID && *f.PaymentMethod == models.PaymentCash && f.Ordering == "amount"
		})).Return([]*models.Payment{{ID: 1, UserID: payer.ID}}, nil).Once()

		list, err := newService(repo, nil, nil).List(context.Background(), payer, models.PaymentFilter{
			UserID: int64Ptr(99), PaymentMethod: &method, Ordering: "amount",
		})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		repo.AssertExpectations(t)
	})

	t.Run("moderator sees all", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
			return f.UserID == nil
		})).Return([]*models.Payment{}, nil).Once()

		_, err := newService(repo, nil, nil).List(context.Background(), moderator, models.PaymentFilter{})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalid method filter", func(t *testing.T) {
		method := models.PaymentMethod("crypto")
		_, err := newService(new(RepoMock), nil, nil).List(context.Background(), payer, models.PaymentFilter{PaymentMethod: &method})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestGet_ObjectRule(t *testing.T) {
	tests := []struct {
		name      string
		actor     *access.Actor
		wantErrIs error
	}{
		{"payer", payer, nil},
		{"moderator", moderator, nil},
		{"stranger", stranger, apperrors.ErrForbidden},
		{"anonymous", nil, apperrors.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("GetPayment", mock.Anything, int64(1)).Return(&models.Payment{ID: 1, UserID: payer.ID}, nil)

			_, err := newService(repo, nil, nil).Get(context.Background(), tt.actor, 1)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}
