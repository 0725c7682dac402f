package s3

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/buildtrace/artpack/pkg/storage/status"
	"github.com/stretchr/testify/assert"
)

func TestSentinelMapping(t *testing.T) {
	for _, toPin := range []struct {
		code       string
		statusCode int
		want       error
	}{
		{code: "NoSuchKey", statusCode: 404, want: status.ErrNotFound},
		{code: "NoSuchBucket", statusCode: 404, want: status.ErrNotFound},
		{code: "AccessDenied", statusCode: 403, want: status.ErrForbidden},
		{code: "InvalidAccessKeyId", statusCode: 403, want: status.ErrUnauthorized},
		{code: "PreconditionFailed", statusCode: 412, want: status.ErrExists},
		{code: "SlowDown", statusCode: 503, want: status.ErrStorageTransient},
		{code: "InternalError", statusCode: 500, want: status.ErrStorageTransient},
		{code: "TeaPot", statusCode: 418, want: status.ErrStorageAPI},
	} {
		testcase := toPin
		err := toSentinelErrors(minio.ErrorResponse{Code: testcase.code, StatusCode: testcase.statusCode})
		assert.ErrorIsf(t, err, testcase.want, "expected code %s to map to %v", testcase.code, testcase.want)
	}
}

func TestSentinelMappingPassthrough(t *testing.T) {
	err := toSentinelErrors(errors.New("weird"))
	assert.ErrorIs(t, err, status.ErrStorageAPI)
}

func TestCredsFor(t *testing.T) {
	_, err := credsFor(Config{Bucket: "b", CredentialsSource: CredentialsStatic})
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	_, err = credsFor(Config{Bucket: "b", AccessKey: "ak", SecretKey: "sk"})
	assert.NoError(t, err)

	_, err = credsFor(Config{Bucket: "b", CredentialsSource: "vault"})
	assert.ErrorIs(t, err, status.ErrInvalidResource)

	_, err = credsFor(Config{Bucket: "b", CredentialsSource: CredentialsEnv})
	assert.NoError(t, err)
}
