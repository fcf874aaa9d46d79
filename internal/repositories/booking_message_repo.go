package repositories

import (
	"context"
	"fmt"

	"bookingportal/internal/models"

	"github.com/google/uuid"
)

type BookingMessageRepository interface {
	Create(ctx context.Context, message *models.BookingMessage) error
	ListByBooking(ctx context.Context, bookingUUID string) ([]*models.BookingMessageWithAuthor, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.BookingMessage, error)
}

type bookingMessageRepo struct {
	db DBTX
}

func NewBookingMessageRepo(db DBTX) BookingMessageRepository {
	return &bookingMessageRepo{db: db}
}

func (r *bookingMessageRepo) Create(ctx context.Context, message *models.BookingMessage) error {
	query := `
		INSERT INTO booking_messages (id, booking_uuid, booking_description, booking_status, user_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		message.ID, message.BookingUUID, message.BookingDescription, message.BookingStatus,
		message.UserID, message.Message, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking message: %w", err)
	}
	return nil
}

// ListByBooking returns a booking's messages oldest first, each with its author.
func (r *bookingMessageRepo) ListByBooking(ctx context.Context, bookingUUID string) ([]*models.BookingMessageWithAuthor, error) {
	query := `
		SELECT m.id, m.booking_uuid, m.booking_description, m.booking_status, m.user_id, m.message, m.created_at, u.name
		FROM booking_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.booking_uuid = $1
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := r.db.Query(ctx, query, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.BookingMessageWithAuthor{}
	for rows.Next() {
		m := &models.BookingMessageWithAuthor{}
		if err := rows.Scan(&m.ID, &m.BookingUUID, &m.BookingDescription, &m.BookingStatus,
			&m.UserID, &m.Message, &m.CreatedAt, &m.Author.Name); err != nil {
			return nil, err
		}
		m.Author.ID = m.UserID
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListByUser returns every message the user wrote, newest first.
func (r *bookingMessageRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.BookingMessage, error) {
	query := `
		SELECT id, booking_uuid, booking_description, booking_status, user_id, message, created_at
		FROM booking_messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.BookingMessage
	for rows.Next() {
		m := &models.BookingMessage{}
		if err := rows.Scan(&m.ID, &m.BookingUUID, &m.BookingDescription, &m.BookingStatus,
			&m.UserID, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
