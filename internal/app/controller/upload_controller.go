package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/survei-backend/internal/errors"
	"github.com/ikkim/survei-backend/internal/middleware"
	"github.com/ikkim/survei-backend/internal/storage"
)

// ImageUploader is satisfied by *storage.S3Storage.
type ImageUploader interface {
	PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	uploader ImageUploader
}

func NewUploadController(uploader ImageUploader) *UploadController {
	return &UploadController{uploader: uploader}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Folder      string `json:"folder" binding:"required"` // stores | questions
}

// GeneratePresignedURL generates a presigned URL for uploading an image to S3
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if !bindJSON(c, log, &req) {
		return
	}

	resp, err := ctrl.uploader.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrContentTypeNotAllowed):
			log.Warn("Invalid content type", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Hanya file gambar yang diizinkan (JPEG, PNG, GIF, WEBP)")
		case errors.Is(err, storage.ErrFolderNotAllowed):
			log.Warn("Invalid upload folder", map[string]interface{}{
				"folder": req.Folder,
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Folder upload tidak valid")
		default:
			log.Error("Failed to generate presigned URL", err, map[string]interface{}{
				"filename": req.Filename,
				"folder":   req.Folder,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Gagal menyiapkan upload. Silakan coba lagi")
		}
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"folder": req.Folder,
		"key":    resp.Key,
	})

	c.JSON(http.StatusOK, resp)
}
