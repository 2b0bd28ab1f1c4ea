package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/middleware"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

type QuestionRequest struct {
	Text            string                 `json:"text" binding:"required"`
	Type            model.QuestionType     `json:"type" binding:"required"`
	Options         []string               `json:"options"`
	ChecklistLimits *model.ChecklistLimits `json:"checklistLimits"`
	CategoryID      string                 `json:"categoryId"`
	CategoryIDs     []string               `json:"categoryIds"`
	ImageURL        string                 `json:"imageUrl"`
	IsActive        *bool                  `json:"isActive"`
}

func (r QuestionRequest) input() service.QuestionInput {
	return service.QuestionInput{
		Text:            r.Text,
		Type:            r.Type,
		Options:         r.Options,
		ChecklistLimits: r.ChecklistLimits,
		CategoryID:      r.CategoryID,
		CategoryIDs:     r.CategoryIDs,
		ImageURL:        r.ImageURL,
		IsActive:        r.IsActive,
	}
}

// ListQuestions GET /api/v1/questions?categoryId=&type=&active=&search=
func (ctrl *QuestionController) ListQuestions(c *gin.Context) {
	filter := repository.QuestionFilter{
		CategoryID: c.Query("categoryId"),
		Type:       model.QuestionType(c.Query("type")),
		ActiveOnly: parseBoolQuery(c, "active"),
		Search:     c.Query("search"),
	}

	questions, err := ctrl.questionService.List(filter)
	if err != nil {
		respondServiceError(c, err, "list questions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}

// GetQuestion GET /api/v1/questions/:id
func (ctrl *QuestionController) GetQuestion(c *gin.Context) {
	question, err := ctrl.questionService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
	})
}

// CreateQuestion POST /api/v1/questions
func (ctrl *QuestionController) CreateQuestion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req QuestionRequest
	if !bindJSON(c, log, &req) {
		return
	}

	question, err := ctrl.questionService.Create(actor, req.input())
	if err != nil {
		respondServiceError(c, err, "create question")
		return
	}

	log.Info("Question created", map[string]interface{}{
		"question_id": question.ID,
		"type":        question.Type,
	})

	c.JSON(http.StatusCreated, gin.H{
		"question": question,
	})
}

// UpdateQuestion PUT /api/v1/questions/:id
func (ctrl *QuestionController) UpdateQuestion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req QuestionRequest
	if !bindJSON(c, log, &req) {
		return
	}

	question, err := ctrl.questionService.Update(actor, c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, err, "update question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
	})
}

// DeleteQuestion DELETE /api/v1/questions/:id
func (ctrl *QuestionController) DeleteQuestion(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := ctrl.questionService.Delete(actor, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Question deleted successfully",
	})
}
