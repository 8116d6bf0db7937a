package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/controller"
	"todo-api/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth   *controller.AuthController
	Todos  *controller.TodoController
	Health *controller.HealthController
	Tokens middleware.TokenVerifier
}

func Router(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.CORS(), middleware.Recovery())

	router.GET("/", controller.Root)

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", h.Health.Ready)

	api := router.Group("/api")
	{
		// Public: no auth
		api.GET("/verifyToken", h.Auth.VerifyToken)
		api.POST("/signup", h.Auth.Signup)
		api.POST("/login", h.Auth.Login)

		// Protected: bearer token required
		todos := api.Group("/todos")
		todos.Use(middleware.AuthMiddleware(h.Tokens))
		{
			todos.GET("", h.Todos.GetTodos)
			todos.POST("", h.Todos.CreateTodo)
			todos.PUT("/:id", h.Todos.UpdateTodo)
			todos.DELETE("/:id", h.Todos.DeleteTodo)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
	return router
}
