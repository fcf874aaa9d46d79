package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookingportal/internal/common"
	"bookingportal/internal/logging"
	"bookingportal/internal/models"
	"bookingportal/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BookingService covers job lookups against ServiceM8 and the local message log.
type BookingService interface {
	ListJobsWithAttachments(ctx context.Context, user *models.User) ([]models.JobWithAttachments, error)
	GetBooking(ctx context.Context, bookingUUID string) (*models.Job, error)

	SendMessage(ctx context.Context, user *models.User, bookingUUID, message string) (*models.BookingMessage, error)
	ListMessages(ctx context.Context, bookingUUID string) ([]*models.BookingMessageWithAuthor, error)
	ListBookingSummaries(ctx context.Context, userID uuid.UUID) ([]models.BookingSummary, error)
}

type bookingService struct {
	sm8         ServiceM8Client
	messages    repositories.BookingMessageRepository
	fanoutLimit int // 0 = unbounded
	logger      logging.Logger
	now         func() time.Time
}

func NewBookingService(sm8 ServiceM8Client, messages repositories.BookingMessageRepository, fanoutLimit int, logger logging.Logger) BookingService {
	return &bookingService{
		sm8:         sm8,
		messages:    messages,
		fanoutLimit: fanoutLimit,
		logger:      logger,
		now:         time.Now,
	}
}

// ListJobsWithAttachments lists the company's jobs and fetches each job's
// attachments concurrently. Any failed attachment fetch fails the whole call.
func (s *bookingService) ListJobsWithAttachments(ctx context.Context, user *models.User) ([]models.JobWithAttachments, error) {
	if user == nil || !user.HasLinkedAccount() {
		return nil, common.ErrNoLinkedAccount
	}

	jobs, err := s.sm8.ListJobsByCompany(ctx, *user.Sm8UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	result := make([]models.JobWithAttachments, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if s.fanoutLimit > 0 {
		g.SetLimit(s.fanoutLimit)
	}
	for i, job := range jobs {
		result[i].Job = job
		g.Go(func() error {
			attachments, err := s.sm8.ListAttachments(gctx, job.UUID)
			if err != nil {
				return fmt.Errorf("failed to list attachments for job %s: %w", job.UUID, err)
			}
			if attachments == nil {
				attachments = []models.Attachment{}
			}
			result[i].Attachments = attachments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "listed jobs with attachments", "sm8_uuid", *user.Sm8UUID, "jobs", len(result))
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingUUID string) (*models.Job, error) {
	return s.sm8.GetJob(ctx, bookingUUID)
}

// SendMessage stores a message on a booking, snapshotting the job's current
// description and status.
func (s *bookingService) SendMessage(ctx context.Context, user *models.User, bookingUUID, message string) (*models.BookingMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, common.ErrEmptyMessage
	}

	job, err := s.sm8.GetJob(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingUUID, err)
	}

	msg := &models.BookingMessage{
		ID:                 uuid.New(),
		BookingUUID:        bookingUUID,
		BookingDescription: job.JobDescription,
		BookingStatus:      job.Status,
		UserID:             user.ID,
		Message:            message,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *bookingService) ListMessages(ctx context.Context, bookingUUID string) ([]*models.BookingMessageWithAuthor, error) {
	return s.messages.ListByBooking(ctx, bookingUUID)
}

// ListBookingSummaries returns one entry per booking the user has written on,
// most recently active first.
func (s *bookingService) ListBookingSummaries(ctx context.Context, userID uuid.UUID) ([]models.BookingSummary, error) {
	messages, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(messages))
	summaries := make([]models.BookingSummary, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.BookingUUID]; ok {
			continue
		}
		seen[m.BookingUUID] = struct{}{}
		summaries = append(summaries, models.BookingSummary{
			BookingUUID:        m.BookingUUID,
			BookingDescription: m.BookingDescription,
			BookingStatus:      m.BookingStatus,
			LastMessage:        m.Message,
			LastMessageAt:      m.CreatedAt,
		})
	}
	return summaries, nil
}
