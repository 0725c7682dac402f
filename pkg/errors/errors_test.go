package errors

import (
	stderr "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsIdentity(t *testing.T) {
	sentinel := New("tag exists")
	cause := stderr.New("pointer already present")

	wrapped := sentinel.Wrap(cause)
	require.NotSame(t, sentinel, wrapped)

	assert.True(t, stderr.Is(wrapped, sentinel))
	assert.True(t, stderr.Is(wrapped, cause))
	assert.Equal(t, "tag exists: pointer already present", wrapped.Error())

	// the shared sentinel is not mutated by Wrap
	assert.NoError(t, sentinel.Unwrap())
	assert.Equal(t, "tag exists", sentinel.Error())
}

func TestWrapSurvivesFmtContext(t *testing.T) {
	sentinel := New("not found")
	err := fmt.Errorf("resolve tag myproject/latest: %w", sentinel.Wrap(stderr.New("backend says 404")))

	assert.True(t, stderr.Is(err, sentinel))

	var e *Error
	require.True(t, As(err, &e))
	assert.Equal(t, "not found: backend says 404", e.Error())
}

func TestIsDistinctSentinels(t *testing.T) {
	a := New("a")
	b := New("b")
	assert.False(t, stderr.Is(a.Wrap(b), New("c")))
	assert.True(t, stderr.Is(a.Wrap(b), b))
	assert.True(t, Is(a.Wrap(b), a))
}

func TestNilUnwrap(t *testing.T) {
	var e *Error
	assert.NoError(t, e.Unwrap())
}
