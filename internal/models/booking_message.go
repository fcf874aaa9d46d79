package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingMessage is a user-authored note on a ServiceM8 job. BookingDescription
// and BookingStatus are copied from the job when the message is sent and are
// not refreshed afterwards.
type BookingMessage struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	BookingUUID        string    `json:"bookingUuid" db:"booking_uuid"`
	BookingDescription string    `json:"bookingDescription" db:"booking_description"`
	BookingStatus      string    `json:"bookingStatus" db:"booking_status"`
	UserID             uuid.UUID `json:"userId" db:"user_id"`
	Message            string    `json:"message" db:"message"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

type MessageAuthor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type BookingMessageWithAuthor struct {
	BookingMessage
	Author MessageAuthor `json:"user"`
}

// BookingSummary is one entry of the per-user booking list: the booking plus
// its most recent message from that user.
type BookingSummary struct {
	BookingUUID        string    `json:"bookingUuid"`
	BookingDescription string    `json:"bookingDescription"`
	BookingStatus      string    `json:"bookingStatus"`
	LastMessage        string    `json:"lastMessage"`
	LastMessageAt      time.Time `json:"lastMessageAt"`
}
