// Package cloudwriter uploads rendered report documents to object storage so
// an off-site copy survives the restaurant machine.
package cloudwriter

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/models"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// Uploader pushes report documents to a configured bucket/prefix.
type Uploader struct {
	factory CloudWriterFactory
	bucket  string
	prefix  string
	logger  *zap.Logger
}

// NewUploader returns (nil, nil) when no bucket is configured.
func NewUploader(cfg models.CloudConfig, logger *zap.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory, err := NewS3WriterFactory(cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
	}
	return &Uploader{factory: factory, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}, nil
}

// Upload stores the document under the configured prefix and returns the
// object key.
func (u *Uploader) Upload(filename string, document []byte) (string, error) {
	key := path.Join(u.prefix, filename)
	w, err := u.factory.NewWriter(u.bucket, key)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(document); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	u.logger.Info("report uploaded",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(document)))
	return key, nil
}
