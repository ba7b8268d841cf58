// Package images keeps image payloads out of the relational store: inline
// payloads are uploaded to S3-compatible object storage and only the
// resulting URL is persisted.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	sc "github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/sanitize"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidPayload is returned for values that are not base64 data: URIs.
var ErrInvalidPayload = errors.New("invalid inline image payload")

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// Store uploads images to the configured bucket.
type Store struct {
	config *sc.Config
	now    func() time.Time
}

func NewStore(cfg *sc.Config) *Store {
	return &Store{config: cfg, now: time.Now}
}

// ObjectKey returns a fresh key of the form prefix/YYYY/MM/DD/<uuid><ext>.
func ObjectKey(prefix string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", prefix, at.Year(), at.Month(), at.Day(), uuid.New(), ext)
}

// DecodeDataURL splits a "data:<mime>;base64,<data>" payload into its
// content type and decoded bytes.
func DecodeDataURL(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if !sanitize.IsInlinePayload(s) {
		return "", nil, ErrInvalidPayload
	}
	meta, data, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, ErrInvalidPayload
	}
	contentType, enc, ok := strings.Cut(meta, ";")
	if !ok || !strings.EqualFold(enc, "base64") {
		return "", nil, ErrInvalidPayload
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(b) == 0 {
		return "", nil, ErrInvalidPayload
	}
	return contentType, b, nil
}

func (s *Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// PublicURL returns the URL under which key is readable.
func (s *Store) PublicURL(key string) string {
	return strings.TrimRight(s.config.S3PublicURL, "/") + "/" + key
}

// UploadInline stores the decoded payload under a fresh key below prefix
// and returns its public URL.
func (s *Store) UploadInline(ctx context.Context, prefix, dataURL string) (string, error) {
	contentType, body, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	client, err := s.client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	ext := ""
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		ext = exts[0]
	}
	key := ObjectKey(prefix, s.now(), ext)
	bucket := s.config.S3Bucket

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.PublicURL(key), nil
}

// Upload describes a direct client upload: the object key, the presigned
// URL to PUT the image to, and the public URL the image is readable under
// once uploaded.
type Upload struct {
	Key       string
	URL       string
	PublicURL string
}

// PresignedPutURL reserves a fresh key below prefix and presigns a PUT for
// it, so a client can upload the image directly.
func (s *Store) PresignedPutURL(ctx context.Context, prefix string) (*Upload, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ObjectKey(prefix, s.now(), "")

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, err
	}

	return &Upload{Key: key, URL: req.URL, PublicURL: s.PublicURL(key)}, nil
}
