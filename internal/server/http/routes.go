package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(engine *gin.Engine, h *Handler) {
	engine.POST("/predict", h.Predict)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/predict", h.Predict)
		v1.GET("/policy", h.Policy)
	}
}
