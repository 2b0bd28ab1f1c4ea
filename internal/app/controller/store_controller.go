package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

type StoreRequest struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Region        string `json:"region"`
	Area          string `json:"area"`
	PhoneNumber   string `json:"phoneNumber"`
	Email         string `json:"email"`
	ContactPerson string `json:"contactPerson"`
	ImageURL      string `json:"imageUrl"`
	IsActive      *bool  `json:"isActive"`
}

func (r StoreRequest) input() service.StoreInput {
	return service.StoreInput{
		Name:          r.Name,
		Address:       r.Address,
		City:          r.City,
		Region:        r.Region,
		Area:          r.Area,
		PhoneNumber:   r.PhoneNumber,
		Email:         r.Email,
		ContactPerson: r.ContactPerson,
		ImageURL:      r.ImageURL,
		IsActive:      r.IsActive,
	}
}

type AddManagerRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type AssignGroupsRequest struct {
	QuestionGroupIDs []string `json:"questionGroupIds"`
}

// ListStores GET /api/v1/stores?region=&city=&area=&search=
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	stores, err := ctrl.storeService.ListAccessible(actor, service.StoreListOptions{
		Region: c.Query("region"),
		City:   c.Query("city"),
		Area:   c.Query("area"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err, "list stores")
		return
	}

	log.Debug("Stores listed", map[string]interface{}{
		"count": len(stores),
	})

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// ListLocations GET /api/v1/stores/locations
func (ctrl *StoreController) ListLocations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	locations, err := ctrl.storeService.ListLocations(actor)
	if err != nil {
		respondServiceError(c, err, "list store locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// GetStore GET /api/v1/stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.Get(actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// CreateStore POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req StoreRequest
	if !bindJSON(c, log, &req) {
		return
	}

	store, err := ctrl.storeService.Create(actor, req.input())
	if err != nil {
		respondServiceError(c, err, "create store")
		return
	}

	log.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"user_id":  actor.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
	})
}

// UpdateStore PUT /api/v1/stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req StoreRequest
	if !bindJSON(c, log, &req) {
		return
	}

	store, err := ctrl.storeService.Update(actor, c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, err, "update store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store updated successfully",
		"store":   store,
	})
}

// DeleteStore DELETE /api/v1/stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := ctrl.storeService.Delete(actor, id); err != nil {
		respondServiceError(c, err, "delete store")
		return
	}

	log.Info("Store deleted", map[string]interface{}{
		"store_id": id,
		"user_id":  actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Store deleted successfully",
	})
}

// ListManagers GET /api/v1/stores/:id/managers
func (ctrl *StoreController) ListManagers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	managers, err := ctrl.storeService.ListManagers(actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "list store managers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"managers": managers,
		"count":    len(managers),
	})
}

// AddManager POST /api/v1/stores/:id/managers
func (ctrl *StoreController) AddManager(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req AddManagerRequest
	if !bindJSON(c, log, &req) {
		return
	}

	store, err := ctrl.storeService.AddManager(actor, c.Param("id"), req.UserID)
	if err != nil {
		respondServiceError(c, err, "add store manager")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// RemoveManager DELETE /api/v1/stores/:id/managers/:userId
func (ctrl *StoreController) RemoveManager(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.RemoveManager(actor, c.Param("id"), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err, "remove store manager")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// AssignGroups PUT /api/v1/stores/:id/groups
func (ctrl *StoreController) AssignGroups(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req AssignGroupsRequest
	if !bindJSON(c, log, &req) {
		return
	}

	store, err := ctrl.storeService.AssignGroups(actor, c.Param("id"), req.QuestionGroupIDs)
	if err != nil {
		respondServiceError(c, err, "assign store groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// ReorderGroups PUT /api/v1/stores/:id/groups/reorder
func (ctrl *StoreController) ReorderGroups(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if !bindJSON(c, log, &req) {
		return
	}

	store, err := ctrl.storeService.ReorderGroups(actor, c.Param("id"), *req.From, *req.To)
	if err != nil {
		respondServiceError(c, err, "reorder store groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// GetWalk GET /api/v1/stores/:id/walk
func (ctrl *StoreController) GetWalk(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	walk, err := ctrl.storeService.Walk(actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "resolve store walk")
		return
	}

	sections := make([]gin.H, 0, len(walk))
	for _, sec := range walk {
		sections = append(sections, gin.H{
			"group":     sec.Group,
			"questions": sec.Questions,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sections":       sections,
		"totalQuestions": walk.TotalQuestions(),
	})
}

// GetSurveyLink GET /api/v1/stores/:id/survey-link
func (ctrl *StoreController) GetSurveyLink(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	link, err := ctrl.storeService.SurveyLink(actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get survey link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": link,
	})
}
