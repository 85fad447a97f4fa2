package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3API is the subset of *s3.Client used by S3Store.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

const (
	metaFilename   = "original-filename"
	metaUploadTime = "upload-time"
)

// S3Store stores uploads in an S3 bucket under a key prefix.
type S3Store struct {
	client    s3API
	presign   presigner
	bucket    string
	prefix    string
	maxSize   int64
	urlExpiry time.Duration
	now       func() time.Time
}

// NewS3Store creates an S3 upload store. A maxSize of 0 disables the size
// limit.
func NewS3Store(client *s3.Client, bucket, prefix string, maxSize int64) *S3Store {
	return newS3Store(client, s3.NewPresignClient(client), bucket, prefix, maxSize)
}

func newS3Store(client s3API, p presigner, bucket, prefix string, maxSize int64) *S3Store {
	return &S3Store{
		client:    client,
		presign:   p,
		bucket:    bucket,
		prefix:    prefix,
		maxSize:   maxSize,
		urlExpiry: 24 * time.Hour,
		now:       time.Now,
	}
}

// WithURLExpiry sets how long presigned URLs are valid.
func (s *S3Store) WithURLExpiry(d time.Duration) *S3Store {
	s.urlExpiry = d
	return s
}

// Save uploads the file and returns a temp ID. The body is buffered so the
// size limit is enforced before anything reaches the bucket.
func (s *S3Store) Save(ctx context.Context, meta Meta, r io.Reader) (string, error) {
	if s.maxSize > 0 && meta.Size > s.maxSize {
		return "", ErrTooLarge
	}

	var buf bytes.Buffer
	reader := r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(&buf, reader)
	if err != nil {
		return "", err
	}
	if s.maxSize > 0 && n > s.maxSize {
		return "", ErrTooLarge
	}

	tempID := uuid.NewString()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(tempID)),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(meta.ContentType),
		ContentLength: aws.Int64(n),
		Metadata: map[string]string{
			metaFilename:   meta.Filename,
			metaUploadTime: s.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload: s3 put: %w", err)
	}
	return tempID, nil
}

// Claim opens a temp object and presigns a URL for it. The object is
// deleted when the returned File is closed.
func (s *S3Store) Claim(ctx context.Context, tempID string) (*File, error) {
	if _, err := uuid.Parse(tempID); err != nil {
		return nil, ErrNotFound
	}
	key := s.key(tempID)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	filename := tempID
	if fn, ok := head.Metadata[metaFilename]; ok {
		filename = fn
	}
	contentType := aws.ToString(head.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url := ""
	if s.presign != nil {
		req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(s.urlExpiry))
		if err == nil {
			url = req.URL
		}
	}

	return &File{
		ID:          tempID,
		Filename:    filename,
		ContentType: contentType,
		Size:        aws.ToInt64(head.ContentLength),
		URL:         url,
		Reader:      &deleteOnCloseObject{ReadCloser: obj.Body, store: s, key: key},
	}, nil
}

// Cleanup deletes objects under the prefix older than maxAge.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := s.now().Add(-maxAge)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var expired []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("upload: s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) && obj.Key != nil {
				expired = append(expired, *obj.Key)
			}
		}
	}

	var errs []error
	for _, key := range expired {
		if err := s.delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *S3Store) key(tempID string) string {
	return s.prefix + tempID
}

func (s *S3Store) delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("upload: s3 delete %s: %w", key, err)
	}
	return nil
}

type deleteOnCloseObject struct {
	io.ReadCloser
	store *S3Store
	key   string
}

func (o *deleteOnCloseObject) Close() error {
	err := o.ReadCloser.Close()
	if derr := o.store.delete(context.Background(), o.key); err == nil {
		err = derr
	}
	return err
}
