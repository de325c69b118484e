package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/valuations", handler.ValuateProperty)
		api.GET("/properties/:id/valuation", handler.GetPropertyValuation)
		api.GET("/properties/:id/avm-estimate", handler.GetAVMEstimate)
		api.GET("/comparables", handler.GetComparables)
		api.POST("/comparables", handler.IngestComparables)
	}
}
