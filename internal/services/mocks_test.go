package services

import (
	"context"
	"io"
	"time"

	"bookingportal/internal/models"
	"bookingportal/internal/servicem8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	args := m.Called(ctx, email, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateSm8UUID(ctx context.Context, id uuid.UUID, sm8UUID string) error {
	args := m.Called(ctx, id, sm8UUID)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingMessageRepository struct {
	mock.Mock
}

func (m *MockBookingMessageRepository) Create(ctx context.Context, message *models.BookingMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockBookingMessageRepository) ListByBooking(ctx context.Context, bookingUUID string) ([]*models.BookingMessageWithAuthor, error) {
	args := m.Called(ctx, bookingUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingMessageWithAuthor), args.Error(1)
}

func (m *MockBookingMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.BookingMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingMessage), args.Error(1)
}

type MockServiceM8Client struct {
	mock.Mock
}

func (m *MockServiceM8Client) FindContactsByEmail(ctx context.Context, email string) ([]models.CompanyContact, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompanyContact), args.Error(1)
}

func (m *MockServiceM8Client) GetJob(ctx context.Context, jobUUID string) (*models.Job, error) {
	args := m.Called(ctx, jobUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockServiceM8Client) ListJobsByCompany(ctx context.Context, companyUUID string) ([]models.Job, error) {
	args := m.Called(ctx, companyUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockServiceM8Client) ListAttachments(ctx context.Context, relatedUUID string) ([]models.Attachment, error) {
	args := m.Called(ctx, relatedUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockServiceM8Client) OpenAttachment(ctx context.Context, attachmentUUID string) (*servicem8.AttachmentFile, error) {
	args := m.Called(ctx, attachmentUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicem8.AttachmentFile), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetUser(ctx context.Context, user *models.User, ttl time.Duration) error {
	args := m.Called(ctx, user, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Open(ctx context.Context, attachmentUUID string) (*StoredObject, bool, error) {
	args := m.Called(ctx, attachmentUUID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*StoredObject), args.Bool(1), args.Error(2)
}

func (m *MockAttachmentStore) Put(ctx context.Context, attachmentUUID, contentType string, reader io.Reader, size int64) error {
	args := m.Called(ctx, attachmentUUID, contentType, reader, size)
	return args.Error(0)
}

func (m *MockAttachmentStore) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAttachmentStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
