package repositories

import "context"

// Repository aggregates all domain repositories behind a single handle.
type Repository interface {
	// User domain
	User() UserRepository

	// Exercise domain
	Exercise() ExerciseRepository
	ExerciseResult() ExerciseResultRepository

	// Test domain
	Test() TestRepository
	TestResult() TestResultRepository

	// Enrollment and progress domain
	Enrollment() EnrollmentRepository

	// Topics and lessons (read-mostly content catalog)
	Content() ContentRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
