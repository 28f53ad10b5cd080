package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

// S3API is the subset of the S3 client used by S3.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds the location of a translation tree in S3-compatible storage.
type S3Config struct {
	// Bucket is the bucket name (required).
	Bucket string

	// Prefix is the key prefix holding the language directories, e.g. "locales/".
	Prefix string

	// AccessKey is the access key ID (required).
	AccessKey string

	// SecretKey is the secret access key (required).
	SecretKey string

	// Endpoint is a custom endpoint URL for MinIO and other S3-compatible services.
	Endpoint string

	// Region defaults to us-east-1.
	Region string

	// FileNames are tried in order inside each language prefix.
	// Defaults to translation.json.
	FileNames []string

	// PathStyle enables path-style addressing (required for MinIO).
	PathStyle bool
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if len(c.FileNames) == 0 {
		c.FileNames = []string{DefaultFileName}
	}
	if c.Prefix != "" && !strings.HasSuffix(c.Prefix, "/") {
		c.Prefix += "/"
	}
}

func (c *S3Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("%w: access key and secret key are required", ErrInvalidConfig)
	}
	return nil
}

// S3 reads translations laid out as <prefix><lang>/translation.json in a bucket.
type S3 struct {
	client S3API
	cfg    S3Config
}

// NewS3 creates an S3 source with a client built from static credentials.
func NewS3(cfg S3Config) (*S3, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3{client: s3.New(s3.Options{}, opts...), cfg: cfg}, nil
}

// NewS3WithClient creates an S3 source on top of an existing client.
// Credentials in cfg are ignored.
func NewS3WithClient(client S3API, cfg S3Config) (*S3, error) {
	cfg.applyDefaults()
	if client == nil || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: client and bucket are required", ErrInvalidConfig)
	}
	return &S3{client: client, cfg: cfg}, nil
}

// Languages lists the common prefixes directly below the configured prefix.
func (s *S3) Languages(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.cfg.Bucket),
		Prefix:    aws.String(s.cfg.Prefix),
		Delimiter: aws.String("/"),
	})

	var langs []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, ErrListFailed)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), s.cfg.Prefix), "/")
			if name == "" || hidden(name) {
				continue
			}
			langs = append(langs, name)
		}
	}
	return langs, nil
}

// Read fetches the first configured file that exists under the language prefix.
func (s *S3) Read(ctx context.Context, lang string) (*File, error) {
	for _, name := range s.cfg.FileNames {
		key := s.cfg.Prefix + lang + "/" + name

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			err = wrapS3Error(err, ErrReadFailed)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		data, err := io.ReadAll(io.LimitReader(out.Body, MaxFileSize+1))
		out.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, key, err)
		}
		if len(data) > MaxFileSize {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, key)
		}

		return &File{Language: lang, Name: lang + "/" + name, Data: data}, nil
	}

	return nil, fmt.Errorf("%w: %s%s/%s", ErrNotFound, s.cfg.Prefix, lang, s.cfg.FileNames[0])
}
