package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
	"github.com/magabrotheeeer/tutor-marketplace/internal/rabbitmq"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}
func (m *RepoMock) ReadSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) UpdateSubscriptionStatus(ctx context.Context, id string, from, to models.SubscriptionStatus) (int64, error) {
	args := m.Called(ctx, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListSubscriptionsBySubscriber(ctx context.Context, subscriberID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, subscriberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type ResolverMock struct{ mock.Mock }

func (m *ResolverMock) Resolve(ctx context.Context, token, ipAddress string) (string, error) {
	args := m.Called(ctx, token, ipAddress)
	return args.String(0), args.Error(1)
}

type AdsMock struct{ mock.Mock }

func (m *AdsMock) Get(ctx context.Context, adID string) (*models.Advertisement, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Advertisement), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	testToken     = "aaaaaaaaaaaaaaaaaaaaaaaa"
	testIP        = "192.0.2.10"
	testTutorID   = "bbbbbbbbbbbbbbbbbbbbbbbb"
	testStudentID = "cccccccccccccccccccccccc"
	testOtherID   = "dddddddddddddddddddddddd"
	testAdID      = "eeeeeeeeeeeeeeeeeeeeeeee"
	testSubID     = "ffffffffffffffffffffffff"
)

func testAd() *models.Advertisement {
	return &models.Advertisement{
		ID:       testAdID,
		AuthorID: testTutorID,
		Title:    "Математика, подготовка к экзаменам",
	}
}

func testSub(status models.SubscriptionStatus) *models.Subscription {
	return &models.Subscription{
		ID:           testSubID,
		SubscriberID: testStudentID,
		AdID:         testAdID,
		Hours:        10,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
}

// setupUsers разрешает обеим сторонам отдавать почту для события уведомления.
func setupUsers(u *UsersMock) {
	u.On("GetUser", mock.Anything, testStudentID).
		Return(&models.User{ID: testStudentID, Email: "student@example.com"}, nil).Maybe()
	u.On("GetUser", mock.Anything, testTutorID).
		Return(&models.User{ID: testTutorID, Email: "tutor@example.com"}, nil).Maybe()
}

func newService(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) *SubscriptionService {
	return NewSubscriptionService(r, res, a, u, p, newNoopLogger())
}

func TestSubscriptionService_Request(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name: "success creates requested subscription and publishes event",
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).Return(testStudentID, nil).Once()
				a.On("Get", mock.Anything, testAdID).Return(testAd(), nil).Once()
				r.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.Status == models.StatusRequested &&
						s.SubscriberID == testStudentID &&
						s.AdID == testAdID &&
						s.Hours == 10 &&
						len(s.ID) == 24
				})).Return(nil).Once()
				setupUsers(u)
				p.On("Publish", rabbitmq.StatusRoutingKey, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
					return e.NewStatus == models.StatusRequested && e.OldStatus == ""
				})).Return(nil).Once()
			},
		},
		{
			name: "unknown session",
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).
					Return("", errs.ErrUnauthenticated).Once()
			},
			wantErr: errs.ErrUnauthenticated,
		},
		{
			name: "unknown advertisement",
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).Return(testStudentID, nil).Once()
				a.On("Get", mock.Anything, testAdID).Return(nil, errs.ErrNotFound).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "publish failure does not fail the request",
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).Return(testStudentID, nil).Once()
				a.On("Get", mock.Anything, testAdID).Return(testAd(), nil).Once()
				r.On("CreateSubscription", mock.Anything, mock.Anything).Return(nil).Once()
				setupUsers(u)
				p.On("Publish", rabbitmq.StatusRoutingKey, mock.Anything).
					Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, res, a, u, p := &RepoMock{}, &ResolverMock{}, &AdsMock{}, &UsersMock{}, &PublisherMock{}
			tt.setupMocks(r, res, a, u, p)
			svc := newService(r, res, a, u, p)

			sub, err := svc.Request(context.Background(), testToken, testIP, models.DummySubscription{
				AdID:  testAdID,
				Hours: 10,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sub)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.StatusRequested, sub.Status)
			}
			r.AssertExpectations(t)
			res.AssertExpectations(t)
			a.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_RequestTransition_Roles(t *testing.T) {
	tests := []struct {
		name    string
		from    models.SubscriptionStatus
		target  models.SubscriptionStatus
		actor   string
		wantErr error
	}{
		{name: "tutor accepts requested", from: models.StatusRequested, target: models.StatusWaitingPayment, actor: testTutorID},
		{name: "tutor rejects requested", from: models.StatusRequested, target: models.StatusTutorRejected, actor: testTutorID},
		{name: "student cancels requested", from: models.StatusRequested, target: models.StatusStudentCanceled, actor: testStudentID},
		{name: "student cancels waiting_payment", from: models.StatusWaitingPayment, target: models.StatusStudentCanceled, actor: testStudentID},
		{name: "tutor confirms payment", from: models.StatusWaitingPayment, target: models.StatusPaid, actor: testTutorID},

		{name: "student cannot accept", from: models.StatusRequested, target: models.StatusWaitingPayment, actor: testStudentID, wantErr: errs.ErrForbidden},
		{name: "student cannot reject", from: models.StatusRequested, target: models.StatusTutorRejected, actor: testStudentID, wantErr: errs.ErrForbidden},
		{name: "tutor cannot cancel", from: models.StatusRequested, target: models.StatusStudentCanceled, actor: testTutorID, wantErr: errs.ErrForbidden},
		{name: "student cannot confirm payment", from: models.StatusWaitingPayment, target: models.StatusPaid, actor: testStudentID, wantErr: errs.ErrForbidden},
		{name: "stranger cannot accept", from: models.StatusRequested, target: models.StatusWaitingPayment, actor: testOtherID, wantErr: errs.ErrForbidden},
		{name: "stranger cannot cancel", from: models.StatusRequested, target: models.StatusStudentCanceled, actor: testOtherID, wantErr: errs.ErrForbidden},

		{name: "cannot pay from requested", from: models.StatusRequested, target: models.StatusPaid, actor: testTutorID, wantErr: errs.ErrIllegalTransition},
		{name: "cannot accept from waiting_payment", from: models.StatusWaitingPayment, target: models.StatusWaitingPayment, actor: testTutorID, wantErr: errs.ErrIllegalTransition},
		{name: "paid is terminal", from: models.StatusPaid, target: models.StatusStudentCanceled, actor: testStudentID, wantErr: errs.ErrIllegalTransition},
		{name: "tutor_rejected is terminal", from: models.StatusTutorRejected, target: models.StatusWaitingPayment, actor: testTutorID, wantErr: errs.ErrIllegalTransition},
		{name: "student_canceled is terminal", from: models.StatusStudentCanceled, target: models.StatusPaid, actor: testTutorID, wantErr: errs.ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, res, a, u, p := &RepoMock{}, &ResolverMock{}, &AdsMock{}, &UsersMock{}, &PublisherMock{}
			res.On("Resolve", mock.Anything, testToken, testIP).Return(tt.actor, nil).Once()
			r.On("ReadSubscription", mock.Anything, testSubID).Return(testSub(tt.from), nil).Once()
			a.On("Get", mock.Anything, testAdID).Return(testAd(), nil).Once()
			if tt.wantErr == nil {
				r.On("UpdateSubscriptionStatus", mock.Anything, testSubID, tt.from, tt.target).
					Return(int64(1), nil).Once()
				setupUsers(u)
				p.On("Publish", rabbitmq.StatusRoutingKey, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
					return e.OldStatus == tt.from && e.NewStatus == tt.target &&
						e.StudentEmail == "student@example.com" &&
						e.TutorEmail == "tutor@example.com"
				})).Return(nil).Once()
			}
			svc := newService(r, res, a, u, p)

			sub, err := svc.RequestTransition(context.Background(), testToken, testIP, testSubID, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sub)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.target, sub.Status)
			}
			r.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_RequestTransition_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     models.SubscriptionStatus
		subID      string
		setupMocks func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:   "unknown target status",
			target: models.SubscriptionStatus("refunded"),
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
			},
			wantErr: errs.ErrIllegalTransition,
		},
		{
			name:   "unknown session",
			target: models.StatusWaitingPayment,
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).
					Return("", errs.ErrUnauthenticated).Once()
			},
			wantErr: errs.ErrUnauthenticated,
		},
		{
			name:   "malformed subscription id rejected before any lookup",
			target: models.StatusWaitingPayment,
			subID:  "not-a-hex-id",
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
			},
			wantErr: errs.ErrInvalidID,
		},
		{
			name:   "unknown subscription",
			target: models.StatusWaitingPayment,
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).Return(testTutorID, nil).Once()
				r.On("ReadSubscription", mock.Anything, testSubID).
					Return(nil, errs.ErrNotFound).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:   "storage error",
			target: models.StatusWaitingPayment,
			setupMocks: func(r *RepoMock, res *ResolverMock, a *AdsMock, u *UsersMock, p *PublisherMock) {
				res.On("Resolve", mock.Anything, testToken, testIP).Return(testTutorID, nil).Once()
				r.On("ReadSubscription", mock.Anything, testSubID).
					Return(testSub(models.StatusRequested), nil).Once()
				a.On("Get", mock.Anything, testAdID).Return(testAd(), nil).Once()
				r.On("UpdateSubscriptionStatus", mock.Anything, testSubID,
					models.StatusRequested, models.StatusWaitingPayment).
					Return(int64(0), errors.New("db error")).Once()
			},
			wantErr: nil, // произвольная ошибка хранилища, не доменная
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, res, a, u, p := &RepoMock{}, &ResolverMock{}, &AdsMock{}, &UsersMock{}, &PublisherMock{}
			tt.setupMocks(r, res, a, u, p)
			svc := newService(r, res, a, u, p)

			subID := tt.subID
			if subID == "" {
				subID = testSubID
			}

			sub, err := svc.RequestTransition(context.Background(), testToken, testIP, subID, tt.target)
			assert.Error(t, err)
			assert.Nil(t, sub)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			r.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_RequestTransition_RetriesLostRace(t *testing.T) {
	r, res, a, u, p := &RepoMock{}, &ResolverMock{}, &AdsMock{}, &UsersMock{}, &PublisherMock{}
	res.On("Resolve", mock.Anything, testToken, testIP).Return(testStudentID, nil).Once()
	a.On("Get", mock.Anything, testAdID).Return(testAd(), nil).Twice()
	setupUsers(u)

	// Первая попытка проигрывает гонку: репетитор успел принять заявку.
	r.On("ReadSubscription", mock.Anything, testSubID).
		Return(testSub(models.StatusRequested), nil).Once()
	r.On("UpdateSubscriptionStatus", mock.Anything, testSubID,
		models.StatusRequested, models.StatusStudentCanceled).
		Return(int64(0), nil).Once()

	// Повтор перечитывает состояние; отмена из waiting_payment всё ещё законна.
	r.On("ReadSubscription", mock.Anything, testSubID).
		Return(testSub(models.StatusWaitingPayment), nil).Once()
	r.On("UpdateSubscriptionStatus", mock.Anything, testSubID,
		models.StatusWaitingPayment, models.StatusStudentCanceled).
		Return(int64(1), nil).Once()
	p.On("Publish", rabbitmq.StatusRoutingKey, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
		return e.OldStatus == models.StatusWaitingPayment &&
			e.NewStatus == models.StatusStudentCanceled
	})).Return(nil).Once()

	svc := newService(r, res, a, u, p)
	sub, err := svc.RequestTransition(context.Background(), testToken, testIP, testSubID, models.StatusStudentCanceled)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusStudentCanceled, sub.Status)
	r.AssertExpectations(t)
	p.AssertExpectations(t)
}

func TestSubscriptionService_RequestTransition_ConflictAfterSecondLoss(t *testing.T) {
	r, res, a, u, p := &RepoMock{}, &ResolverMock{}, &AdsMock{}, &UsersMock{}, &PublisherMock{}
	res.On("Resolve", mock.Anything, testToken, testIP).Return(testTutorID, nil).Once()
	a.On("Get", mock.Anything, testAdID).Return(testAd(), nil).Twice()

	r.On("ReadSubscription", mock.Anything, testSubID).
		Return(testSub(models.StatusRequested), nil).Twice()
	r.On("UpdateSubscriptionStatus", mock.Anything, testSubID,
		models.StatusRequested, models.StatusWaitingPayment).
		Return(int64(0), nil).Twice()

	svc := newService(r, res, a, u, p)
	sub, err := svc.RequestTransition(context.Background(), testToken, testIP, testSubID, models.StatusWaitingPayment)

	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Nil(t, sub)
	r.AssertExpectations(t)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// Полный жизненный цикл: заявка создаётся, принимается репетитором
// и оплачивается, после чего любые переходы запрещены.
func TestSubscriptionService_FullLifecycle(t *testing.T) {
	r, res, a, u, p := &RepoMock{}, &ResolverMock{}, &AdsMock{}, &UsersMock{}, &PublisherMock{}
	studentToken := "111111111111111111111111"
	tutorToken := "222222222222222222222222"
	res.On("Resolve", mock.Anything, studentToken, testIP).Return(testStudentID, nil)
	res.On("Resolve", mock.Anything, tutorToken, testIP).Return(testTutorID, nil)
	a.On("Get", mock.Anything, testAdID).Return(testAd(), nil)
	setupUsers(u)
	p.On("Publish", rabbitmq.StatusRoutingKey, mock.Anything).Return(nil)

	r.On("CreateSubscription", mock.Anything, mock.Anything).Return(nil).Once()
	svc := newService(r, res, a, u, p)

	sub, err := svc.Request(context.Background(), studentToken, testIP, models.DummySubscription{AdID: testAdID, Hours: 5})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusRequested, sub.Status)

	r.On("ReadSubscription", mock.Anything, testSubID).
		Return(testSub(models.StatusRequested), nil).Once()
	r.On("UpdateSubscriptionStatus", mock.Anything, testSubID,
		models.StatusRequested, models.StatusWaitingPayment).Return(int64(1), nil).Once()
	sub, err = svc.RequestTransition(context.Background(), tutorToken, testIP, testSubID, models.StatusWaitingPayment)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusWaitingPayment, sub.Status)

	r.On("ReadSubscription", mock.Anything, testSubID).
		Return(testSub(models.StatusWaitingPayment), nil).Once()
	r.On("UpdateSubscriptionStatus", mock.Anything, testSubID,
		models.StatusWaitingPayment, models.StatusPaid).Return(int64(1), nil).Once()
	sub, err = svc.RequestTransition(context.Background(), tutorToken, testIP, testSubID, models.StatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, sub.Status)

	// Оплаченная заявка — конечное состояние.
	r.On("ReadSubscription", mock.Anything, testSubID).
		Return(testSub(models.StatusPaid), nil).Once()
	_, err = svc.RequestTransition(context.Background(), studentToken, testIP, testSubID, models.StatusStudentCanceled)
	assert.ErrorIs(t, err, errs.ErrIllegalTransition)

	r.AssertExpectations(t)
}

func TestAllowedActor_TableIsClosed(t *testing.T) {
	statuses := []models.SubscriptionStatus{
		models.StatusRequested, models.StatusWaitingPayment,
		models.StatusTutorRejected, models.StatusStudentCanceled, models.StatusPaid,
	}

	allowed := map[[2]models.SubscriptionStatus]role{
		{models.StatusRequested, models.StatusWaitingPayment}:       roleTutor,
		{models.StatusRequested, models.StatusTutorRejected}:        roleTutor,
		{models.StatusRequested, models.StatusStudentCanceled}:      roleStudent,
		{models.StatusWaitingPayment, models.StatusStudentCanceled}: roleStudent,
		{models.StatusWaitingPayment, models.StatusPaid}:            roleTutor,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			actor, ok := allowedActor(from, to)
			wantActor, wantOK := allowed[[2]models.SubscriptionStatus{from, to}]
			assert.Equal(t, wantOK, ok, "%s -> %s", from, to)
			if wantOK {
				assert.Equal(t, wantActor, actor, "%s -> %s", from, to)
			}
			if from.Terminal() {
				assert.False(t, ok, "terminal %s must not allow transitions", from)
			}
		}
	}
}
