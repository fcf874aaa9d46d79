package services

import (
	"context"

	"bookingportal/internal/models"
	"bookingportal/internal/servicem8"
)

// ServiceM8Client is the subset of the ServiceM8 REST API the services use.
// *servicem8.Client satisfies it.
type ServiceM8Client interface {
	FindContactsByEmail(ctx context.Context, email string) ([]models.CompanyContact, error)
	GetJob(ctx context.Context, jobUUID string) (*models.Job, error)
	ListJobsByCompany(ctx context.Context, companyUUID string) ([]models.Job, error)
	ListAttachments(ctx context.Context, relatedUUID string) ([]models.Attachment, error)
	OpenAttachment(ctx context.Context, attachmentUUID string) (*servicem8.AttachmentFile, error)
}

var _ ServiceM8Client = (*servicem8.Client)(nil)
