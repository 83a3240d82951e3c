package s3

import "context"

// IOperator is the object-storage surface the photo handlers depend on.
type IOperator interface {
	UploadFileToS3(ctx context.Context, path, contentType string, fileContent []byte) (string, error)
	DeleteFileFromS3(ctx context.Context, publicURL string) error
}

var _ IOperator = (*S3Operator)(nil)
