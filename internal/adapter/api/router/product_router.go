package router

import (
	"secondhand/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupProductRouter(api *echo.Group) {
	productHandler := handler.GetProductHandler()

	products := api.Group("/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/search", productHandler.SearchProducts)
	products.GET("/category/:categoryId", productHandler.ListByCategory)
	products.GET("/:id", productHandler.GetProduct)
	products.POST("/with-upload", productHandler.CreateProductWithUpload)
	products.PUT("/:id", productHandler.UpdateProduct)
	products.DELETE("/:id", productHandler.DeleteProduct)
}
