package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idreview/internal/domain"
	s3storage "idreview/internal/storage/s3"
)

type object struct {
	data        []byte
	contentType string
}

// fakeBucket is an in-memory stand-in for both the S3 client and the uploader.
type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string]object
	deletes   []string
	deleteErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string]object)}
}

func (f *fakeBucket) Upload(_ context.Context, in *awss3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = object{data: data, contentType: aws.ToString(in.ContentType)}
	return &manager.UploadOutput{}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &awss3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: aws.String(obj.contentType),
	}, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.deletes = append(f.deletes, key)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, key)
	return &awss3.DeleteObjectOutput{}, nil
}

func TestPreviewStore_CreateOpenRelease(t *testing.T) {
	bucket := newFakeBucket()
	store := s3storage.NewPreviewStoreWithClient(bucket, bucket, "previews", "tmp", time.Second)

	h, err := store.Create("a.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, bucket.objects, "previews/tmp/"+h.ID.String())

	data, ct, err := store.Open(h.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, store.Release(h.ID))
	assert.Empty(t, bucket.objects)

	assert.ErrorIs(t, store.Release(h.ID), domain.ErrPreviewReleased)
	_, _, err = store.Open(h.ID)
	assert.ErrorIs(t, err, domain.ErrPreviewReleased)
	assert.Len(t, bucket.deletes, 1)
}

func TestPreviewStore_UnknownAndEmpty(t *testing.T) {
	bucket := newFakeBucket()
	store := s3storage.NewPreviewStoreWithClient(bucket, bucket, "previews", "", time.Second)

	_, err := store.Create("a.png", "image/png", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	h, err := store.Create("a.png", "image/png", []byte("x"))
	require.NoError(t, err)
	other := h.ID
	other[0] ^= 0xff
	_, _, err = store.Open(other)
	assert.ErrorIs(t, err, domain.ErrPreviewNotFound)
}

func TestPreviewStore_ReleaseDeleteFailureCountsAsReleased(t *testing.T) {
	bucket := newFakeBucket()
	store := s3storage.NewPreviewStoreWithClient(bucket, bucket, "previews", "", time.Second)
	h, err := store.Create("a.png", "image/png", []byte("x"))
	require.NoError(t, err)
	bucket.deleteErr = errors.New("AccessDenied")

	assert.Error(t, store.Release(h.ID))
	assert.ErrorIs(t, store.Release(h.ID), domain.ErrPreviewReleased)
	assert.Len(t, bucket.deletes, 1)
}
