package handlers

import (
	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Status stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerSessionRoutes(api)
		h.registerRoasterRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	session := api.Group("/session")
	{
		session.POST("/start", h.startSession)
		session.POST("/stop", h.stopSession)
	}
	api.GET("/sessions/:id/readings", h.getSessionReadings)
}

func (h *Handler) registerRoasterRoutes(api *gin.RouterGroup) {
	roaster := api.Group("/roaster")
	{
		// Body: {"level": 80}
		roaster.POST("/heat", h.setHeat)
		// Body: {"speed": 30}
		roaster.POST("/fan", h.setFan)
		roaster.POST("/start", h.startRoaster)
		roaster.POST("/stop", h.stopRoaster)
		roaster.POST("/drop", h.dropBeans)
		roaster.POST("/cooling/start", h.startCooling)
		roaster.POST("/cooling/stop", h.stopCooling)
		roaster.POST("/load-beans", h.loadBeans)
		// Body: {"temperature_c": 196.5, "timestamp": "2025-08-27T15:04:05Z"}
		roaster.POST("/first-crack", h.reportFirstCrack)
		roaster.GET("/status", h.getStatus)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}
