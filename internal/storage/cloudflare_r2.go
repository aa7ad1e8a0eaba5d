package storage

import (
	"context"
	"fmt"
)

// NewCloudflareR2Storage - R2 совместим с S3 API, регион всегда "auto".
// ACL не поддерживаются: публичность настраивается на уровне бакета.
func NewCloudflareR2Storage(ctx context.Context, cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for Cloudflare R2")
	}
	if cfg.Endpoint == "" {
		if cfg.AccountID == "" {
			return nil, fmt.Errorf("endpoint or account id is required for Cloudflare R2")
		}
		cfg.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.r2.dev", cfg.Bucket)
	}

	return newS3Storage(ctx, cfg, "auto", baseURL, false)
}
