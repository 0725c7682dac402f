package gcs

import (
	"context"
	"fmt"
	"net"

	gcsStorage "cloud.google.com/go/storage"

	"github.com/buildtrace/artpack/pkg/storage/status"
	"google.golang.org/api/googleapi"
)

func errInvalidBucket(bucket string) error {
	return status.ErrInvalidResource.Wrap(fmt.Errorf("invalid gcs bucket name: %q", bucket))
}

func apiErrors(err *googleapi.Error) error {
	switch err.Code {
	case 401:
		return status.ErrUnauthorized.Wrap(err)
	case 403:
		return status.ErrForbidden.Wrap(err)
	case 404:
		return status.ErrNotFound.Wrap(err)
	case 412:
		// failed DoesNotExist precondition: the object appeared first
		return status.ErrExists.Wrap(err)
	case 408, 429, 500, 502, 503, 504:
		return status.ErrStorageTransient.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}

// toSentinelErrors maps backend API errors to the sentinels defined by
// the storage status package
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	if err == gcsStorage.ErrObjectNotExist || err == gcsStorage.ErrBucketNotExist {
		return status.ErrNotFound.Wrap(err)
	}
	if typedErr, isGoogle := err.(*googleapi.Error); isGoogle {
		return apiErrors(typedErr)
	}
	if netErr, isNet := err.(net.Error); isNet && netErr.Timeout() {
		return status.ErrStorageTransient.Wrap(err)
	}
	if err == context.DeadlineExceeded {
		return status.ErrStorageTransient.Wrap(err)
	}
	return status.ErrStorageAPI.Wrap(err)
}
