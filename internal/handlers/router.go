package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/LinguaViet-2025/progress-service/internal/config"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
	"github.com/LinguaViet-2025/progress-service/internal/services"
	"github.com/LinguaViet-2025/progress-service/internal/utils"
	"github.com/LinguaViet-2025/progress-service/internal/validator"
)

type HandlerManager struct {
	submissionHandler *SubmissionHandler
	enrollmentHandler *EnrollmentHandler
	contentHandler    *ContentHandler
	exportHandler     *ExportHandler
	authMiddleware    *CasdoorAuthMiddleware
	logger            utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo, logger)

	return &HandlerManager{
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), validator, logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), validator, logger),
		contentHandler:    NewContentHandler(serviceManager.Content(), logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:    authMiddleware,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, allowedOrigins []string) {
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(hm.logger))
	router.Use(RecoveryMiddleware(hm.logger))
	router.Use(CORSMiddleware(allowedOrigins))

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.POST("/exercises", hm.submissionHandler.SubmitExercise)
			submissions.GET("/exercises/me", hm.submissionHandler.GetMyExerciseResults)
			submissions.GET("/lessons/:id/results", hm.submissionHandler.GetMyLessonResults)
			submissions.POST("/tests", hm.submissionHandler.SubmitTest)
			submissions.GET("/tests/:id/me", hm.submissionHandler.GetMyTestResult)
		}

		// Enrollment routes
		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", hm.enrollmentHandler.Enroll)
			enrollments.GET("/me", hm.enrollmentHandler.GetMyEnrollments)
			enrollments.GET("/:topic_id", hm.enrollmentHandler.GetMyEnrollment)
		}

		// Content read routes
		v1.GET("/lessons/:id/exercises", hm.contentHandler.GetLessonExercises)
		v1.GET("/units/:id/tests", hm.contentHandler.GetUnitTests)
		v1.GET("/tests/available", hm.contentHandler.GetAvailableTests)
		v1.GET("/tests/:id", hm.contentHandler.GetTest)

		// User routes
		v1.GET("/users/me/points", hm.contentHandler.GetMyPoints)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/tests/:id/export", hm.exportHandler.ExportTestResults)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "progress-service",
		})
	})
}
