package services

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StoredObject is an attachment read back from the mirror. Callers must close Body.
type StoredObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// AttachmentStore mirrors attachment bytes keyed by attachment UUID.
type AttachmentStore interface {
	// Open returns (nil, false, nil) when the object is not mirrored.
	Open(ctx context.Context, attachmentUUID string) (*StoredObject, bool, error)
	Put(ctx context.Context, attachmentUUID, contentType string, reader io.Reader, size int64) error
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioAttachmentStore struct {
	client *minio.Client
	bucket string
}

func NewMinioAttachmentStore(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (AttachmentStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioAttachmentStore{client: client, bucket: bucket}, nil
}

func objectName(attachmentUUID string) string {
	return "attachments/" + attachmentUUID
}

func (m *minioAttachmentStore) Open(ctx context.Context, attachmentUUID string) (*StoredObject, bool, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName(attachmentUUID), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &StoredObject{Body: obj, ContentType: info.ContentType, Size: info.Size}, true, nil
}

func (m *minioAttachmentStore) Put(ctx context.Context, attachmentUUID, contentType string, reader io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName(attachmentUUID), reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioAttachmentStore) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioAttachmentStore) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
