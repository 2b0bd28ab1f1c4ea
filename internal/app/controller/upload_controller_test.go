package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/survei-backend/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeUploader struct {
	err error
}

func (f *fakeUploader) PresignImageUpload(_ context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := folder + "/" + filename
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.example.com/" + key + "?sig=1",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
	}, nil
}

func TestUploadController_GeneratePresignedURL(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{
			name:     "success",
			body:     GeneratePresignedURLRequest{Filename: "a.png", ContentType: "image/png", Folder: storage.FolderStores},
			wantCode: http.StatusOK,
		},
		{
			name:     "content type rejected",
			err:      fmt.Errorf("%w: application/pdf", storage.ErrContentTypeNotAllowed),
			body:     GeneratePresignedURLRequest{Filename: "a.pdf", ContentType: "application/pdf", Folder: storage.FolderStores},
			wantCode: http.StatusBadRequest,
			wantErr:  "UPLOAD_INVALID_FILE_TYPE",
		},
		{
			name:     "folder rejected",
			err:      storage.ErrFolderNotAllowed,
			body:     GeneratePresignedURLRequest{Filename: "a.png", ContentType: "image/png", Folder: "tmp"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_INVALID_INPUT",
		},
		{
			name:     "presign failure",
			err:      errors.New("no credentials"),
			body:     GeneratePresignedURLRequest{Filename: "a.png", ContentType: "image/png", Folder: storage.FolderQuestions},
			wantCode: http.StatusInternalServerError,
			wantErr:  "UPLOAD_FAILED",
		},
		{
			name:     "missing folder",
			body:     map[string]string{"filename": "a.png", "contentType": "image/png"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupAPI(t)
			env.uploader.err = tt.err

			w := env.do(t, http.MethodPost, "/upload/presigned-url", env.token(t, env.staff), tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			body := decodeBody(t, w)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
				return
			}
			assert.Equal(t, "stores/a.png", body["key"])
			assert.Equal(t, "https://cdn.example.com/stores/a.png", body["fileUrl"])
		})
	}
}
