package source

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig = errors.New("source: invalid configuration")
	ErrListFailed    = errors.New("source: failed to list languages")
	ErrNotFound      = errors.New("source: translation file not found")
	ErrAccessDenied  = errors.New("source: access denied")
	ErrReadFailed    = errors.New("source: failed to read translation file")
	ErrParseFailed   = errors.New("source: failed to parse translation file")
	ErrFileTooLarge  = errors.New("source: translation file exceeds size limit")
)

// wrapS3Error maps S3 errors onto the package sentinels.
// The original error is formatted with %v so callers match on sentinels only.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
