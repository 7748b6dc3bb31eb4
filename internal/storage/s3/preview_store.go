package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"idreview/internal/config"
	"idreview/internal/domain"
	"idreview/internal/port"
)

// ObjectAPI is the subset of *s3.Client the preview store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Uploader is the subset of *manager.Uploader the preview store uses.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// PreviewStore keeps preview bytes in an S3 bucket so that any editor instance can
// serve them. It implements port.PreviewStore.
type PreviewStore struct {
	client   ObjectAPI
	uploader Uploader
	bucket   string
	prefix   string
	timeout  time.Duration

	mu       sync.Mutex
	live     map[uuid.UUID]bool
	released map[uuid.UUID]bool
}

// NewPreviewStore creates an S3-backed preview store from cfg.
func NewPreviewStore(cfg *config.S3Config) (*PreviewStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return NewPreviewStoreWithClient(client, manager.NewUploader(client), cfg.Bucket, cfg.Prefix, cfg.OpTimeout), nil
}

// NewPreviewStoreWithClient creates a preview store on top of the given clients.
func NewPreviewStoreWithClient(client ObjectAPI, uploader Uploader, bucket, prefix string, timeout time.Duration) *PreviewStore {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &PreviewStore{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
		timeout:  timeout,
		live:     make(map[uuid.UUID]bool),
		released: make(map[uuid.UUID]bool),
	}
}

func (s *PreviewStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *PreviewStore) Create(name, contentType string, data []byte) (port.PreviewHandle, error) {
	if len(data) == 0 {
		return port.PreviewHandle{}, domain.ErrEmptyFile
	}
	id := uuid.New()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"original-filename": name},
	})
	if err != nil {
		return port.PreviewHandle{}, fmt.Errorf("s3 upload: %w", err)
	}

	s.mu.Lock()
	s.live[id] = true
	s.mu.Unlock()

	return port.PreviewHandle{ID: id, ContentType: contentType}, nil
}

func (s *PreviewStore) Open(id uuid.UUID) ([]byte, string, error) {
	if err := s.check(id); err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return nil, "", fmt.Errorf("s3 download: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, "", fmt.Errorf("s3 download read: %w", err)
	}
	return data, aws.ToString(result.ContentType), nil
}

// Release deletes the object. The handle counts as released even if the delete fails,
// so a failed delete is logged and leaves an orphan for bucket lifecycle rules.
func (s *PreviewStore) Release(id uuid.UUID) error {
	s.mu.Lock()
	if err := s.checkLocked(id); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.live, id)
	s.released[id] = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		log.Printf("s3.PreviewStore.Release: deleting %s: %v", s.key(id), err)
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}

func (s *PreviewStore) check(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkLocked(id)
}

func (s *PreviewStore) checkLocked(id uuid.UUID) error {
	if s.live[id] {
		return nil
	}
	if s.released[id] {
		return domain.ErrPreviewReleased
	}
	return domain.ErrPreviewNotFound
}
