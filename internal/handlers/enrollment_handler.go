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

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	validator         *validator.Validator
}

func NewEnrollmentHandler(
	enrollmentService services.EnrollmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
		validator:         validator,
	}
}

// Enroll enrolls the caller in a topic
// @Summary Enroll in topic
// @Description Creates an enrollment and seeds per-lesson progress rows
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body services.EnrollRequest true "Enrollment data"
// @Success 201 {object} services.EnrollmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "Enrolling user in topic")

	var req services.EnrollRequest
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

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// GetMyEnrollments lists the caller's enrollments with progress
// @Summary List own enrollments
// @Tags enrollments
// @Produce json
// @Param completed query bool false "Filter by completion"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.EnrollmentListResponse
// @Failure 401 {object} ErrorResponse
// @Router /enrollments/me [get]
func (h *EnrollmentHandler) GetMyEnrollments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := repositories.EnrollmentFilters{}
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

	enrollments, err := h.enrollmentService.GetUserEnrollments(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// GetMyEnrollment returns the caller's enrollment in one topic
// @Summary Get own enrollment for topic
// @Tags enrollments
// @Produce json
// @Param topic_id path uint true "Topic ID"
// @Success 200 {object} services.EnrollmentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{topic_id} [get]
func (h *EnrollmentHandler) GetMyEnrollment(c *gin.Context) {
	topicID := h.parseIDParam(c, "topic_id")
	if topicID == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.GetEnrollment(c.Request.Context(), userID, topicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}
