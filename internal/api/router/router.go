package router

import (
	"github.com/cuongbtq/job-gateway/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes. An
// empty authToken disables authentication, which is a non-production mode.
func SetupRouter(deps *handler.Dependencies, authToken string) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	jobHandler := handler.NewJobHandler(deps)

	// Health check endpoint stays unauthenticated
	r.GET("/health", jobHandler.Health)

	jobs := r.Group("/jobs")
	jobs.Use(AuthMiddleware(authToken))
	{
		// POST /jobs - Accept an operation for asynchronous execution
		jobs.POST("", jobHandler.CreateJob)

		// GET /jobs/:job_id - Poll job status and result
		jobs.GET("/:job_id", jobHandler.GetJob)
	}

	return r
}
