package lrs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindPredicates(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"bad request", badRequestf("nope"), IsBadRequest},
		{"conflict", conflictf("id-1", "diverged"), IsConflict},
		{"not found", notFoundf("id-2", "missing"), IsNotFound},
		{"internal", internalf("broken"), IsInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))

			// Wrapping preserves the kind
			wrapped := fmt.Errorf("outer: %w", tc.err)
			assert.True(t, tc.check(wrapped))
		})
	}
}

func TestErrorKindPredicates_ForeignErrors(t *testing.T) {
	err := fmt.Errorf("plain failure")
	assert.False(t, IsBadRequest(err))
	assert.False(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsInternal(err))
}

func TestError_MessageIncludesStatementID(t *testing.T) {
	err := conflictf("11111111-1111-1111-1111-111111111111", "diverged")
	assert.Contains(t, err.Error(), "CONFLICT")
	assert.Contains(t, err.Error(), "11111111-1111-1111-1111-111111111111")

	bare := badRequestf("bad input")
	assert.NotContains(t, bare.Error(), "statement=")
}

func TestFixedClock_Advances(t *testing.T) {
	c := &FixedClock{T: testEpoch, Step: 2}
	assert.Equal(t, testEpoch, c.Now())
	assert.Equal(t, testEpoch.Add(2), c.Now())
	assert.Equal(t, testEpoch.Add(4), c.Now())
}
