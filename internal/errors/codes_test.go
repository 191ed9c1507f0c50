package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *PipelineError
		want string
	}{
		{"fetch status", FetchStatus("http://x/a.json", 404), "HTTP 404 while fetching http://x/a.json"},
		{"transport", Transport("http://x/a.json", io.ErrUnexpectedEOF), "request failed while fetching http://x/a.json: unexpected EOF"},
		{"shape", Shape("projects.json must be an array"), "projects.json must be an array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("load page: %w", Parse("u", io.EOF))

	assert.True(t, IsCode(err, ErrCodeParse))
	assert.False(t, IsCode(err, ErrCodeShape))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, ErrCodeParse, GetCodeFromError(err, ErrCodeTransport))
	assert.Equal(t, ErrCodeTransport, GetCodeFromError(io.EOF, ErrCodeTransport))
}
