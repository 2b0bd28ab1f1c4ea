package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/app/survey"
	apperrors "github.com/ikkim/survei-backend/internal/errors"
	"github.com/ikkim/survei-backend/internal/middleware"
	"github.com/ikkim/survei-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// currentActor returns the authenticated account or answers 401.
func currentActor(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("User not found in context", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return nil, false
	}
	return user, true
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, log *logger.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Input tidak valid")
		return false
	}
	return true
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrForbidden, http.StatusForbidden, apperrors.AuthzForbidden, "Anda tidak memiliki akses"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Username atau password salah"},
	{service.ErrUserInactive, http.StatusForbidden, apperrors.AuthUserInactive, "Akun tidak aktif"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.UserNotFound, "Pengguna tidak ditemukan"},
	{service.ErrUsernameRequired, http.StatusBadRequest, apperrors.ValidationRequired, "Username wajib diisi"},
	{service.ErrUsernameTaken, http.StatusConflict, apperrors.AuthUsernameExists, "Username sudah digunakan"},
	{service.ErrInvalidRole, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Role tidak valid"},
	{service.ErrPasswordTooShort, http.StatusBadRequest, apperrors.ValidationTooShort, "Password minimal 6 karakter"},
	{service.ErrCannotDeleteSuperAdmin, http.StatusForbidden, apperrors.UserCannotDeleteSuperAdmin, "Akun super admin tidak dapat dihapus"},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest, apperrors.UserCannotDeleteSelf, "Tidak dapat menghapus akun sendiri"},
	{service.ErrCategoryNotFound, http.StatusNotFound, apperrors.CategoryNotFound, "Kategori tidak ditemukan"},
	{service.ErrCategoryExists, http.StatusConflict, apperrors.ResourceAlreadyExists, "Kategori dengan nama ini sudah ada"},
	{service.ErrQuestionNotFound, http.StatusNotFound, apperrors.QuestionNotFound, "Pertanyaan tidak ditemukan"},
	{service.ErrUnknownQuestion, http.StatusBadRequest, apperrors.ValidationInvalidID, "Pertanyaan tidak dikenal"},
	{service.ErrQuestionGroupNotFound, http.StatusNotFound, apperrors.QuestionGroupNotFound, "Grup pertanyaan tidak ditemukan"},
	{service.ErrUnknownQuestionGroup, http.StatusBadRequest, apperrors.StoreUnknownGroup, "Grup pertanyaan tidak dikenal"},
	{service.ErrStoreNotFound, http.StatusNotFound, apperrors.StoreNotFound, "Toko tidak ditemukan"},
	{service.ErrStoreInactive, http.StatusForbidden, apperrors.StoreInactive, "Survei toko ini sedang tidak aktif"},
	{service.ErrCannotRemoveCreator, http.StatusBadRequest, apperrors.StoreCannotRemoveCreator, "Pembuat toko tidak dapat dihapus dari pengelola"},
	{service.ErrResponseNotFound, http.StatusNotFound, apperrors.SurveyResponseNotFound, "Respons survei tidak ditemukan"},
	{service.ErrCustomerNameRequired, http.StatusBadRequest, apperrors.SurveyCustomerRequired, "Nama pelanggan wajib diisi"},
	{survey.ErrIndexOutOfRange, http.StatusBadRequest, apperrors.ValidationInvalidRange, "Posisi di luar jangkauan"},
}

// respondServiceError maps a service error to its HTTP answer. Unknown errors
// are logged and parsed by apperrors.ParseAndRespond.
func respondServiceError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		log.Warn("Validation failed", map[string]interface{}{
			"action": action,
			"field":  validationErr.Field,
			"error":  validationErr.Message,
		})
		apperrors.RespondWithValidationError(c, map[string]string{validationErr.Field: validationErr.Message})
		return
	}

	var missingErr *survey.MissingAnswersError
	if errors.As(err, &missingErr) {
		log.Warn("Mandatory questions unanswered", map[string]interface{}{
			"action": action,
			"groups": len(missingErr.Groups),
		})
		apperrors.RespondWithMissingAnswers(c, missingErr.Groups)
		return
	}

	var answerErr *survey.InvalidAnswerError
	if errors.As(err, &answerErr) {
		log.Warn("Invalid answer", map[string]interface{}{
			"action":      action,
			"question_id": answerErr.QuestionID,
			"reason":      answerErr.Reason,
		})
		apperrors.BadRequest(c, apperrors.SurveyInvalidAnswer, "Jawaban tidak valid untuk pertanyaan: "+answerErr.QuestionText)
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"action": action,
				"code":   m.code,
				"error":  err.Error(),
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"action": action,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
}

// parseResponseQuery reads storeIds (comma separated), from, to (YYYY-MM-DD,
// inclusive, in loc), search and limit.
func parseResponseQuery(c *gin.Context, loc *time.Location) (service.ResponseQuery, error) {
	query := service.ResponseQuery{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("storeIds"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				query.StoreIDs = append(query.StoreIDs, id)
			}
		}
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return query, &model.ValidationError{Field: "from", Message: "format tanggal harus YYYY-MM-DD"}
		}
		query.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return query, &model.ValidationError{Field: "to", Message: "format tanggal harus YYYY-MM-DD"}
		}
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		query.To = &end
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		return query, &model.ValidationError{Field: "to", Message: "tanggal akhir sebelum tanggal awal"}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return query, &model.ValidationError{Field: "limit", Message: "harus bilangan bulat positif"}
		}
		query.Limit = limit
	}
	return query, nil
}

func parseBoolQuery(c *gin.Context, key string) bool {
	return strings.EqualFold(c.DefaultQuery(key, "false"), "true")
}
