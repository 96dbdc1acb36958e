package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LinguaViet-2025/progress-service/internal/services"
	"github.com/LinguaViet-2025/progress-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

// GetLessonExercises lists the exercises of a lesson
// @Summary List lesson exercises
// @Tags content
// @Produce json
// @Param id path uint true "Lesson ID"
// @Success 200 {array} models.Exercise
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id}/exercises [get]
func (h *ContentHandler) GetLessonExercises(c *gin.Context) {
	lessonID := h.parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	exercises, err := h.contentService.GetExercisesByLesson(c.Request.Context(), lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercises)
}

// GetUnitTests lists the tests visible to a topic with the caller's results
// @Summary List tests by unit
// @Tags content
// @Produce json
// @Param id path uint true "Topic ID"
// @Success 200 {array} services.TestSummary
// @Failure 404 {object} ErrorResponse
// @Router /units/{id}/tests [get]
func (h *ContentHandler) GetUnitTests(c *gin.Context) {
	topicID := h.parseIDParam(c, "id")
	if topicID == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	tests, err := h.contentService.GetTestsByUnit(c.Request.Context(), userID, topicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tests)
}

// GetAvailableTests lists the tests the caller can take
// @Summary List available tests
// @Tags content
// @Produce json
// @Success 200 {array} services.TestSummary
// @Failure 401 {object} ErrorResponse
// @Router /tests/available [get]
func (h *ContentHandler) GetAvailableTests(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	tests, err := h.contentService.GetAvailableTests(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tests)
}

// GetTest returns one test with its exercises, answers stripped
// @Summary Get test
// @Tags content
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} models.Test
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [get]
func (h *ContentHandler) GetTest(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	test, err := h.contentService.GetTestByID(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// GetMyPoints returns the caller's accumulated points
// @Summary Get own points
// @Tags users
// @Produce json
// @Success 200 {object} services.UserPointsResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/me/points [get]
func (h *ContentHandler) GetMyPoints(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	points, err := h.contentService.GetUserPoints(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}
