package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/export"
	"github.com/ikkim/survei-backend/internal/app/service"
	apperrors "github.com/ikkim/survei-backend/internal/errors"
	"github.com/ikkim/survei-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SurveyController serves responses, analytics and exports to the dashboard.
type SurveyController struct {
	surveyService service.SurveyService
	location      *time.Location
}

func NewSurveyController(surveyService service.SurveyService, location *time.Location) *SurveyController {
	if location == nil {
		location = time.UTC
	}
	return &SurveyController{
		surveyService: surveyService,
		location:      location,
	}
}

// ListResponses GET /api/v1/responses?storeIds=&from=&to=&search=&limit=
func (ctrl *SurveyController) ListResponses(c *gin.Context) {
	ctrl.listResponses(c, "")
}

// ListStoreResponses GET /api/v1/stores/:id/responses
func (ctrl *SurveyController) ListStoreResponses(c *gin.Context) {
	ctrl.listResponses(c, c.Param("id"))
}

func (ctrl *SurveyController) listResponses(c *gin.Context, storeID string) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	query, err := parseResponseQuery(c, ctrl.location)
	if err != nil {
		respondServiceError(c, err, "list survey responses")
		return
	}
	if storeID != "" {
		query.StoreIDs = []string{storeID}
	}

	responses, err := ctrl.surveyService.ListResponses(c.Request.Context(), actor, query)
	if err != nil {
		respondServiceError(c, err, "list survey responses")
		return
	}

	log.Debug("Survey responses listed", map[string]interface{}{
		"count":  len(responses),
		"stores": len(query.StoreIDs),
	})

	c.JSON(http.StatusOK, gin.H{
		"responses": responses,
		"count":     len(responses),
	})
}

// GetResponse GET /api/v1/stores/:id/responses/:responseId
func (ctrl *SurveyController) GetResponse(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	detail, err := ctrl.surveyService.GetResponse(actor, c.Param("id"), c.Param("responseId"))
	if err != nil {
		respondServiceError(c, err, "get survey response")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteResponse DELETE /api/v1/stores/:id/responses/:responseId
func (ctrl *SurveyController) DeleteResponse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	storeID, responseID := c.Param("id"), c.Param("responseId")
	if err := ctrl.surveyService.DeleteResponse(actor, storeID, responseID); err != nil {
		respondServiceError(c, err, "delete survey response")
		return
	}

	log.Info("Survey response deleted", map[string]interface{}{
		"store_id":    storeID,
		"response_id": responseID,
		"user_id":     actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Response deleted successfully",
	})
}

// GetAnalytics GET /api/v1/analytics
func (ctrl *SurveyController) GetAnalytics(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	query, err := parseResponseQuery(c, ctrl.location)
	if err != nil {
		respondServiceError(c, err, "survey analytics")
		return
	}

	summary, err := ctrl.surveyService.Analytics(c.Request.Context(), actor, query)
	if err != nil {
		respondServiceError(c, err, "survey analytics")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetStoreSummaries GET /api/v1/stores/summary
func (ctrl *SurveyController) GetStoreSummaries(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	summaries, err := ctrl.surveyService.StoreSummaries(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "store summaries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": summaries,
		"count":  len(summaries),
	})
}

// Export GET /api/v1/export?format=long|wide
func (ctrl *SurveyController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		log.Warn("Invalid export format", map[string]interface{}{
			"format": c.Query("format"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Format ekspor harus long atau wide")
		return
	}

	query, err := parseResponseQuery(c, ctrl.location)
	if err != nil {
		respondServiceError(c, err, "export survey responses")
		return
	}

	file, err := ctrl.surveyService.Export(c.Request.Context(), actor, query, format)
	if err != nil {
		respondServiceError(c, err, "export survey responses")
		return
	}

	log.Info("Survey responses exported", map[string]interface{}{
		"format":   format,
		"filename": file.Filename,
		"bytes":    len(file.Content),
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, xlsxContentType, file.Content)
}
