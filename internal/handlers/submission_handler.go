package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LinguaViet-2025/progress-service/internal/repositories"
	"github.com/LinguaViet-2025/progress-service/internal/services"
	"github.com/LinguaViet-2025/progress-service/internal/utils"
	"github.com/LinguaViet-2025/progress-service/internal/validator"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *validator.Validator
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// SubmitExercise grades a single exercise answer
// @Summary Submit exercise answer
// @Description Grades an exercise answer, persists the result and awards points on first completion
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body services.SubmitExerciseRequest true "Submission data"
// @Success 200 {object} services.SubmitExerciseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /submissions/exercises [post]
func (h *SubmissionHandler) SubmitExercise(c *gin.Context) {
	h.LogRequest(c, "Submitting exercise answer")

	var req services.SubmitExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.submissionService.SubmitExercise(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitTest grades a full test answer sheet
// @Summary Submit test
// @Description Grades all answers of a test in one shot, awards points on the first attempt only
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body services.SubmitTestRequest true "Test submission data"
// @Success 200 {object} services.SubmitTestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /submissions/tests [post]
func (h *SubmissionHandler) SubmitTest(c *gin.Context) {
	h.LogRequest(c, "Submitting test")

	var req services.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.submissionService.SubmitTest(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyExerciseResults lists the caller's exercise results
// @Summary List own exercise results
// @Tags submissions
// @Produce json
// @Param completed query bool false "Filter by completion"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.ExerciseResultListResponse
// @Failure 401 {object} ErrorResponse
// @Router /submissions/exercises/me [get]
func (h *SubmissionHandler) GetMyExerciseResults(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := repositories.ResultFilters{}
	if raw := c.Query("completed"); raw != "" {
		if completed, err := strconv.ParseBool(raw); err == nil {
			filters.Completed = &completed
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	results, err := h.submissionService.GetUserExerciseResults(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetMyLessonResults lists the caller's results for one lesson's exercises
// @Summary Get own lesson results
// @Tags submissions
// @Produce json
// @Param id path uint true "Lesson ID"
// @Success 200 {object} services.ExerciseResultListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/lessons/{id}/results [get]
func (h *SubmissionHandler) GetMyLessonResults(c *gin.Context) {
	lessonID := h.parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	results, err := h.submissionService.GetUserLessonResults(c.Request.Context(), userID, lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetMyTestResult returns the caller's result for one test
// @Summary Get own test result
// @Tags submissions
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} models.TestResult
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/tests/{id}/me [get]
func (h *SubmissionHandler) GetMyTestResult(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.submissionService.GetTestResult(c.Request.Context(), userID, testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
