package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/ikkim/survei-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *S3Storage {
	return NewS3Storage(config.S3Config{
		Region:          "ap-southeast-3",
		Bucket:          "survei-test",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		BaseURL:         baseURL,
	})
}

func TestS3Storage_PresignImageUpload(t *testing.T) {
	s := newTestStorage("")

	resp, err := s.PresignImageUpload(context.Background(), "Toko Depan.PNG", "image/png", FolderStores)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "stores/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Contains(t, resp.UploadURL, "survei-test")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://survei-test.s3.ap-southeast-3.amazonaws.com/"+resp.Key, resp.FileURL)
}

func TestS3Storage_PresignImageUpload_BaseURLAndExtension(t *testing.T) {
	s := newTestStorage("https://cdn.example.com/")

	resp, err := s.PresignImageUpload(context.Background(), "question", "image/webp", FolderQuestions)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(resp.Key, ".webp"))
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
}

func TestS3Storage_PresignImageUpload_Rejects(t *testing.T) {
	s := newTestStorage("")

	tests := []struct {
		name        string
		contentType string
		folder      string
		wantErr     error
	}{
		{"unknown folder", "image/png", "community", ErrFolderNotAllowed},
		{"empty folder", "image/png", "", ErrFolderNotAllowed},
		{"pdf", "application/pdf", FolderStores, ErrContentTypeNotAllowed},
		{"svg", "image/svg+xml", FolderQuestions, ErrContentTypeNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PresignImageUpload(context.Background(), "file.png", tt.contentType, tt.folder)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
