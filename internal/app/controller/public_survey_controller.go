package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/middleware"
)

// PublicSurveyController serves the anonymous customer flow. No auth.
type PublicSurveyController struct {
	surveyService service.SurveyService
}

func NewPublicSurveyController(surveyService service.SurveyService) *PublicSurveyController {
	return &PublicSurveyController{surveyService: surveyService}
}

// SubmitSurveyRequest answers are keyed by question id; each value is the raw
// JSON answer (string, number or list of strings).
type SubmitSurveyRequest struct {
	CustomerInfo model.CustomerInfo         `json:"customerInfo"`
	Answers      map[string]json.RawMessage `json:"answers"`
}

// GetForm GET /api/v1/public/stores/:id/survey
func (ctrl *PublicSurveyController) GetForm(c *gin.Context) {
	form, err := ctrl.surveyService.PublicForm(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get survey form")
		return
	}

	c.JSON(http.StatusOK, form)
}

// Submit POST /api/v1/public/stores/:id/responses
func (ctrl *PublicSurveyController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitSurveyRequest
	if !bindJSON(c, log, &req) {
		return
	}

	storeID := c.Param("id")
	response, err := ctrl.surveyService.Submit(storeID, service.SubmitInput{
		Customer: req.CustomerInfo,
		Answers:  req.Answers,
	})
	if err != nil {
		respondServiceError(c, err, "submit survey response")
		return
	}

	log.Info("Survey response submitted", map[string]interface{}{
		"store_id":    storeID,
		"response_id": response.ID,
		"status":      response.CompletionStatus,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Terima kasih atas tanggapan Anda",
		"responseId":       response.ID,
		"completionStatus": response.CompletionStatus,
	})
}
