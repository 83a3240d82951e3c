package s3_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"vitrine/adapters/s3"
)

func TestMaxSizeReader(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		maxSize    int64
		wantN      int
		wantErr    bool
		wantErrMsg string
	}{
		{
			name:    "content under the limit",
			input:   []byte("photo"),
			maxSize: 10,
			wantN:   5,
			wantErr: false,
		},
		{
			name:       "content over the limit",
			input:      []byte("oversized photo"),
			maxSize:    5,
			wantN:      5,
			wantErr:    true,
			wantErrMsg: "reach limit of 5 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := s3.NewMaxSizeReader(bytes.NewReader(tt.input), tt.maxSize)
			buf := make([]byte, len(tt.input))
			n, err := reader.Read(buf)

			assert.Equal(t, tt.wantN, n)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
			} else {
				assert.True(t, err == nil || err == io.EOF)
			}
		})
	}
}

func TestMaxSizeReaderReadAll(t *testing.T) {
	input := bytes.Repeat([]byte("x"), 1024)
	reader := s3.NewMaxSizeReader(bytes.NewReader(input), 512)

	_, err := io.ReadAll(reader)
	assert.ErrorAs(t, err, &s3.ErrReachLimitType)
}
