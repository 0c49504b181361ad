// file: internal/services/file_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testFileService() *fileService {
	return &fileService{
		logger: zap.NewNop(),
		config: DefaultFileConfig(),
	}
}

func TestValidateImageUpload(t *testing.T) {
	s := testFileService()

	valid := &FileUploadRequest{
		UserID:      1,
		File:        strings.NewReader("fake image bytes"),
		Filename:    "tree.jpg",
		Size:        1024,
		ContentType: "image/jpeg",
	}
	assert.NoError(t, s.validateImageUpload(valid))
}

func TestValidateImageUploadRejections(t *testing.T) {
	s := testFileService()

	cases := []struct {
		name string
		req  *FileUploadRequest
	}{
		{"nil request", nil},
		{"no file", &FileUploadRequest{Filename: "a.jpg", Size: 1, ContentType: "image/jpeg"}},
		{"zero size", &FileUploadRequest{File: strings.NewReader("x"), Filename: "a.jpg", Size: 0, ContentType: "image/jpeg"}},
		{"oversized", &FileUploadRequest{File: strings.NewReader("x"), Filename: "a.jpg", Size: s.config.MaxImageSize + 1, ContentType: "image/jpeg"}},
		{"bad content type", &FileUploadRequest{File: strings.NewReader("x"), Filename: "a.pdf", Size: 1, ContentType: "application/pdf"}},
		{"bad extension", &FileUploadRequest{File: strings.NewReader("x"), Filename: "a.exe", Size: 1, ContentType: "image/jpeg"}},
	}

	for _, tc := range cases {
		err := s.validateImageUpload(tc.req)
		assert.Error(t, err, tc.name)
		assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type, tc.name)
	}
}
