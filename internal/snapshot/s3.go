package snapshot

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

type S3Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`

	// Endpoint overrides the S3 endpoint for S3 compatible storages.
	Endpoint string `mapstructure:"endpoint"`
}

var _ Mirror = (*S3Mirror)(nil)

// S3Mirror uploads published generations to a bucket under
// <prefix>/<generation>/<file> and then rewrites <prefix>/latest.json.
type S3Mirror struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Mirror(ctx context.Context, cfg S3Config) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "s3 bucket is required")
	}
	sdkConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Region != "" {
			o.Region = cfg.Region
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Mirror{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (m *S3Mirror) Mirror(ctx context.Context, gen *Generation) error {
	for _, name := range append(append([]string(nil), gen.Files...), manifestFile) {
		if err := m.upload(ctx, filepath.Join(gen.Dir(), name), path.Join(m.prefix, gen.Name, name)); err != nil {
			return errors.WithStack(err)
		}
	}
	if err := m.upload(ctx, filepath.Join(gen.Dir(), manifestFile), path.Join(m.prefix, "latest.json")); err != nil {
		return errors.WithStack(err)
	}
	logger.InfoContext(ctx, "snapshot mirrored to s3",
		slogx.String("event", "snapshot/mirrored"),
		slogx.String("bucket", m.bucket),
		slogx.String("generation", gen.Name),
	)
	return nil
}

func (m *S3Mirror) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "can't open %s", file)
	}
	defer f.Close()

	contentType := "application/json"
	if strings.HasSuffix(file, ".parquet") {
		contentType = "application/octet-stream"
	}
	if _, err := m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	}); err != nil {
		return errors.Wrapf(err, "can't upload %s", key)
	}
	return nil
}
