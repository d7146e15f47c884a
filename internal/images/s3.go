package images

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config covers real AWS as well as MinIO / Spaces / R2 style endpoints.
type S3Config struct {
	Bucket string
	Region string
	Key    string
	Secret string

	// Endpoint, when set, switches the client to path-style addressing
	// against a custom S3-compatible host.
	Endpoint string

	// BaseURL is the public URL prefix images are served from; derived
	// from bucket and region when empty.
	BaseURL string

	// Prefix namespaces this site's objects inside the bucket.
	Prefix string
}

type S3Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("images/s3: bucket is not configured")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "garden-rosas/products"
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsConf, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("images/s3: load config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Store{
		client:  s3.NewFromConfig(awsConf, clientOpts...),
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: baseURL,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, fileName, contentType string, data []byte) (Image, error) {
	key := s.prefix + "/" + objectName(fileName, time.Now().UTC())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Image{}, fmt.Errorf("images/s3: put %s: %w", key, err)
	}

	return Image{
		ID:         key,
		URL:        s.url(key),
		FileName:   path.Base(key),
		Bytes:      int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (s *S3Store) List(ctx context.Context) ([]Image, error) {
	var out []Image

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("images/s3: list %s: %w", s.prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			img := Image{
				ID:       *obj.Key,
				URL:      s.url(*obj.Key),
				FileName: path.Base(*obj.Key),
			}
			if obj.Size != nil {
				img.Bytes = *obj.Size
			}
			if obj.LastModified != nil {
				img.UploadedAt = *obj.LastModified
			}
			out = append(out, img)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	// HeadObject first so a missing key reports not-found; S3 deletes of
	// absent keys succeed silently.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return ErrNotFound
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("images/s3: delete %s: %w", id, err)
	}
	return nil
}

func (s *S3Store) url(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}
