package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rentsurvey/internal/database"
)

// SetupRoutes registers the read-only survey API.
func SetupRoutes(router *gin.Engine, db *database.Database) {
	router.Use(cors.Default())

	handler := NewHandler(db, nil)

	api := router.Group("/api")
	{
		api.GET("/surveys", handler.GetSurveys)
		api.GET("/surveys/:id/listings", handler.GetSurveyListings)
		api.GET("/surveys/:id/stats", handler.GetSurveyStats)
	}
}
