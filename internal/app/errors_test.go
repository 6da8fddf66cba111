package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/farmer/internal/session"
	"github.com/five82/farmer/internal/ui"
)

func TestFailure_Report(t *testing.T) {
	kinds := []Kind{InvalidIdentifier, ServiceUnavailable, ConfigWrite, MissingRuntime, IncompatibleRuntime, HandshakeRejected}
	seen := map[int]bool{}
	for _, kind := range kinds {
		f := newFailure(kind, errors.New("boom"), false)
		assert.False(t, seen[f.ExitCode()], "exit code %d reused", f.ExitCode())
		seen[f.ExitCode()] = true
		assert.Greater(t, f.ExitCode(), 1)
		assert.NotEqual(t, "Error", f.Title(), kind.String())
		assert.NotEmpty(t, f.Hints(), kind.String())
		assert.Equal(t, "boom", f.Error())

		var r ui.Reportable
		assert.True(t, errors.As(fmt.Errorf("wrapped: %w", f), &r))
	}
}

func TestFailure_ErrorWithoutCause(t *testing.T) {
	f := &Failure{Kind: ServiceUnavailable}
	assert.Equal(t, "service unavailable", f.Error())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestInitFailure(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{&session.MissingRuntimeError{AppID: 730, Err: errors.New("dial")}, MissingRuntime},
		{&session.IncompatibleRuntimeError{AppID: 730, Err: errors.New("v1")}, IncompatibleRuntime},
		{&session.HandshakeRejectedError{AppID: 730, Reason: "not owned"}, HandshakeRejected},
		{errors.New("unexpected"), MissingRuntime},
	}
	for _, tt := range tests {
		f := initFailure(tt.err, true)
		assert.Equal(t, tt.want, f.Kind, tt.err.Error())
		assert.True(t, f.Silent)
		assert.ErrorIs(t, f, tt.err)
	}
}
