package source

import (
	"context"
	"fmt"
	"time"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/config"
)

// NewResolverFromConfig creates a Resolver serving file, http, https and s3
// locations as described by cfg.
func NewResolverFromConfig(ctx context.Context, cfg config.SourceConfig) (*Resolver, error) {
	r := NewResolver()
	r.LimitBytes(cfg.MaxBytes)
	r.Register("file", NewFileSystemSource(cfg.FSRoot))

	httpSource := NewHTTPSource(HTTPOptions{
		RetryMax:  cfg.HTTP.RetryMax,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		UserAgent: cfg.HTTP.UserAgent,
	})
	r.Register("http", httpSource)
	r.Register("https", httpSource)

	s3Source, err := NewS3Source(ctx, S3Options{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		UsePathStyle:    cfg.S3.UsePathStyle,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 source: %w", err)
	}
	r.Register("s3", s3Source)

	return r, nil
}
