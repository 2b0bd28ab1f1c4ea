package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/middleware"
)

type QuestionGroupController struct {
	groupService service.QuestionGroupService
}

func NewQuestionGroupController(groupService service.QuestionGroupService) *QuestionGroupController {
	return &QuestionGroupController{groupService: groupService}
}

type QuestionGroupRequest struct {
	Name                 string   `json:"name" binding:"required"`
	Description          string   `json:"description"`
	QuestionIDs          []string `json:"questionIds"`
	MandatoryQuestionIDs []string `json:"mandatoryQuestionIds"`
	IsActive             *bool    `json:"isActive"`
}

func (r QuestionGroupRequest) input() service.QuestionGroupInput {
	return service.QuestionGroupInput{
		Name:                 r.Name,
		Description:          r.Description,
		QuestionIDs:          r.QuestionIDs,
		MandatoryQuestionIDs: r.MandatoryQuestionIDs,
		IsActive:             r.IsActive,
	}
}

// ListGroups GET /api/v1/question-groups?active=true
func (ctrl *QuestionGroupController) ListGroups(c *gin.Context) {
	groups, err := ctrl.groupService.List(parseBoolQuery(c, "active"))
	if err != nil {
		respondServiceError(c, err, "list question groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questionGroups": groups,
		"count":          len(groups),
	})
}

// GetGroup GET /api/v1/question-groups/:id
func (ctrl *QuestionGroupController) GetGroup(c *gin.Context) {
	group, err := ctrl.groupService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get question group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questionGroup": group,
	})
}

// CreateGroup POST /api/v1/question-groups
func (ctrl *QuestionGroupController) CreateGroup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req QuestionGroupRequest
	if !bindJSON(c, log, &req) {
		return
	}

	group, err := ctrl.groupService.Create(actor, req.input())
	if err != nil {
		respondServiceError(c, err, "create question group")
		return
	}

	log.Info("Question group created", map[string]interface{}{
		"group_id":  group.ID,
		"questions": len(group.QuestionIDs),
	})

	c.JSON(http.StatusCreated, gin.H{
		"questionGroup": group,
	})
}

// UpdateGroup PUT /api/v1/question-groups/:id
func (ctrl *QuestionGroupController) UpdateGroup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req QuestionGroupRequest
	if !bindJSON(c, log, &req) {
		return
	}

	group, err := ctrl.groupService.Update(actor, c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, err, "update question group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questionGroup": group,
	})
}

// DeleteGroup DELETE /api/v1/question-groups/:id
func (ctrl *QuestionGroupController) DeleteGroup(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := ctrl.groupService.Delete(actor, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete question group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Question group deleted successfully",
	})
}

// ReorderQuestions PUT /api/v1/question-groups/:id/reorder
func (ctrl *QuestionGroupController) ReorderQuestions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if !bindJSON(c, log, &req) {
		return
	}

	group, err := ctrl.groupService.ReorderQuestions(actor, c.Param("id"), *req.From, *req.To)
	if err != nil {
		respondServiceError(c, err, "reorder question group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questionGroup": group,
	})
}

// GetGroupQuestions GET /api/v1/question-groups/:id/questions
func (ctrl *QuestionGroupController) GetGroupQuestions(c *gin.Context) {
	questions, err := ctrl.groupService.ResolveQuestions(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get question group questions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}
