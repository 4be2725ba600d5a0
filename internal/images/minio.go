package images

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioSource picks from the objects of a MinIO bucket and hands the
// browser a presigned GET URL.
type MinioSource struct {
	client *minio.Client
	bucket string
}

func NewMinioSource(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioSource, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket %q does not exist", bucket)
	}

	return &MinioSource{client: client, bucket: bucket}, nil
}

func (s *MinioSource) Random(ctx context.Context) (string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return "", fmt.Errorf("list bucket: %w", obj.Err)
		}
		if isImage(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return "", ErrNoImages
	}

	key := keys[rand.Intn(len(keys))]
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", key, err)
	}
	return u.String(), nil
}
