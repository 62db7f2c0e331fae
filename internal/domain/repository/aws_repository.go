package repository

import "context"

// AWSRepository defines the interface for publishing reports to AWS.
type AWSRepository interface {
	// GetAccountID returns the account the configured credentials belong to.
	GetAccountID(ctx context.Context) (string, error)

	// UploadReport stores a local report file in S3 and returns its s3:// URI.
	UploadReport(ctx context.Context, path string) (string, error)
}
