// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/config"
)

// S3 accepts at most this many keys per DeleteObjects call.
const maxDeleteBatch = 1000

// ObjectStore holds product image bytes under "{brand}/..." keys.
type ObjectStore interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix and
	// reports how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// NewObjectStore builds the store selected by cfg.Driver.
func NewObjectStore(cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(cfg)
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.LocalBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// BrandPrefix is the key prefix under which all images of a brand live.
func BrandPrefix(brand string) string {
	return keySegment(brand) + "/"
}

// ImageKey builds "{brand}/{product_id}/{random}.png".
func ImageKey(brand string, productID uuid.UUID) string {
	return fmt.Sprintf("%s%s/%s.png", BrandPrefix(brand), productID, uuid.New())
}

// keySegment makes a name safe to use as a single path segment.
func keySegment(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

type S3Store struct {
	client        s3iface.S3API
	bucket        string
	region        string
	endpoint      string
	pathStyle     bool
	cloudFrontURL string
}

func NewS3Store(cfg config.StorageConfig) (*S3Store, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3Store(s3.New(sess), cfg), nil
}

func newS3Store(client s3iface.S3API, cfg config.StorageConfig) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle:     cfg.ForcePathStyle,
		cloudFrontURL: cfg.CloudFrontURL,
	}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.url(key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *S3Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var keys []*s3.ObjectIdentifier
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, &s3.ObjectIdentifier{Key: obj.Key})
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list %q: %w", prefix, err)
	}

	deleted := 0
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := start + maxDeleteBatch
		if end > len(keys) {
			end = len(keys)
		}

		out, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{Objects: keys[start:end], Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete %q: %w", prefix, err)
		}
		deleted += end - start - len(out.Errors)
		if len(out.Errors) > 0 {
			return deleted, fmt.Errorf("failed to delete %d objects under %q: %s",
				len(out.Errors), prefix, aws.StringValue(out.Errors[0].Message))
		}
	}

	return deleted, nil
}

func (s *S3Store) url(key string) string {
	key = escapeKey(key)
	switch {
	case s.cloudFrontURL != "":
		return fmt.Sprintf("%s/%s", s.cloudFrontURL, key)
	case s.endpoint != "" && s.pathStyle:
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	case s.endpoint != "":
		u, err := url.Parse(s.endpoint)
		if err != nil || u.Host == "" {
			return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
		}
		return fmt.Sprintf("%s://%s.%s/%s", u.Scheme, s.bucket, u.Host, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

// LocalStore keeps objects on disk; the server exposes dir under baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{dir: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the root directory objects are written under.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, escapeKey(key)), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	root, err := s.path(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return 0, err
	}

	count := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to scan %q: %w", prefix, err)
	}

	if err := os.RemoveAll(root); err != nil {
		return 0, fmt.Errorf("failed to delete %q: %w", prefix, err)
	}

	logrus.WithFields(logrus.Fields{"prefix": prefix, "files": count}).Debug("Removed local objects")
	return count, nil
}

func (s *LocalStore) path(key string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if path == s.dir || !strings.HasPrefix(path, s.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path, nil
}
