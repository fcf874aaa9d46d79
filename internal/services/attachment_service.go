package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"bookingportal/internal/logging"
	"bookingportal/internal/servicem8"
)

// DefaultMaxMirrorSize is the largest attachment copied into the mirror.
const DefaultMaxMirrorSize int64 = 10 << 20

type AttachmentService interface {
	// Open returns the attachment bytes. Upstream failures come back as *servicem8.APIError.
	Open(ctx context.Context, attachmentUUID string) (*servicem8.AttachmentFile, error)
}

type attachmentService struct {
	sm8           ServiceM8Client
	store         AttachmentStore // nil disables mirroring
	maxMirrorSize int64
	logger        logging.Logger
}

func NewAttachmentService(sm8 ServiceM8Client, store AttachmentStore, maxMirrorSize int64, logger logging.Logger) AttachmentService {
	if maxMirrorSize <= 0 {
		maxMirrorSize = DefaultMaxMirrorSize
	}
	return &attachmentService{sm8: sm8, store: store, maxMirrorSize: maxMirrorSize, logger: logger}
}

func (s *attachmentService) Open(ctx context.Context, attachmentUUID string) (*servicem8.AttachmentFile, error) {
	if s.store != nil {
		obj, ok, err := s.store.Open(ctx, attachmentUUID)
		if err != nil {
			s.logger.Warn(ctx, "attachment mirror read failed", "attachment_uuid", attachmentUUID, "error", err)
		} else if ok {
			return &servicem8.AttachmentFile{Body: obj.Body, ContentType: obj.ContentType, ContentLength: obj.Size}, nil
		}
	}

	file, err := s.sm8.OpenAttachment(ctx, attachmentUUID)
	if err != nil {
		var apiErr *servicem8.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}

	if s.store == nil || file.ContentLength > s.maxMirrorSize {
		return file, nil
	}
	return s.mirror(ctx, attachmentUUID, file)
}

// mirror buffers up to maxMirrorSize bytes. Small files are stored and served
// from the buffer; larger ones continue streaming from upstream.
func (s *attachmentService) mirror(ctx context.Context, attachmentUUID string, file *servicem8.AttachmentFile) (*servicem8.AttachmentFile, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(file.Body, s.maxMirrorSize+1))
	if err != nil {
		file.Body.Close()
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	if n > s.maxMirrorSize {
		return &servicem8.AttachmentFile{
			Body:          readCloser{Reader: io.MultiReader(&buf, file.Body), Closer: file.Body},
			ContentType:   file.ContentType,
			ContentLength: file.ContentLength,
		}, nil
	}

	file.Body.Close()
	data := buf.Bytes()
	if err := s.store.Put(ctx, attachmentUUID, file.ContentType, bytes.NewReader(data), n); err != nil {
		s.logger.Warn(ctx, "attachment mirror write failed", "attachment_uuid", attachmentUUID, "error", err)
	}
	return &servicem8.AttachmentFile{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   file.ContentType,
		ContentLength: n,
	}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
