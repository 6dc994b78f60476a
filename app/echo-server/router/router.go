package router

import (
	"shopRecs/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")

	reco.GET("", handler.Recommend)
	reco.GET("/home", handler.Home)
	reco.GET("/product/:id", handler.RecommendForProduct)
	reco.GET("/user/:id", handler.RecommendForUser)
}

func SetupInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler) {
	interactions := api.Group("/interactions")

	interactions.POST("", handler.Record)
}
