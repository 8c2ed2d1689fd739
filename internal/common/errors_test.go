package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppError_UnwrapAndCode(t *testing.T) {
	err := fmt.Errorf("tier 2: %w", NewAppError(CodeRenderFailure, "pdftoppm exited 1", ErrRender))

	assert.True(t, errors.Is(err, ErrRender))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, CodeRenderFailure, ErrorCode(err))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Contains(t, err.Error(), "RENDER_FAILURE: pdftoppm exited 1: pdf render failed")
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"invalid input", NewAppError("X", "bad", ErrInvalidInput), codes.InvalidArgument},
		{"validation", fmt.Errorf("wrap: %w", ErrValidation), codes.InvalidArgument},
		{"not found", ErrNotFound, codes.NotFound},
		{"remote", NewAppError(CodeRemoteServiceFailure, "502", ErrRemoteService), codes.Unavailable},
		{"database", fmt.Errorf("save: %w", ErrDatabase), codes.Internal},
		{"already status", status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(ToStatus(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.want, st.Code())
		})
	}
	assert.NoError(t, ToStatus(nil))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("filename", "  ", Required).
		Field("content", []byte{}, NotEmptyBytes).
		Field("content", make([]byte, 10), MaxBytes(4))

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)
	assert.True(t, errors.Is(v.Error(), ErrValidation))

	st, _ := status.FromError(ValidateAndReturnError(v))
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "filename")

	ok := NewValidator().
		Field("filename", "policy.pdf", Required, MaxLen(255)).
		Field("content", []byte("%PDF"), NotEmptyBytes, MaxBytes(1024))
	assert.False(t, ok.HasErrors())
	assert.NoError(t, ok.Error())
	assert.NoError(t, ValidateAndReturnError(ok))
}
