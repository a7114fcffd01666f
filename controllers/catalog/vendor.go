package catalogControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/services"
)

type variantInput struct {
	Barcode           string            `json:"barcode"`
	Price             float64           `json:"price" binding:"required,gt=0"`
	DiscountPrice     float64           `json:"discount_price"`
	Stock             int               `json:"stock" binding:"min=0"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	WarehouseLocation string            `json:"warehouse_location"`
	Attributes        map[string]string `json:"attributes"`
}

type createProductInput struct {
	ShopID      uint           `json:"shop_id" binding:"required"`
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Variants    []variantInput `json:"variants" binding:"required,min=1,dive"`
}

type updateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type updateVariantInput struct {
	Price             *float64 `json:"price"`
	DiscountPrice     *float64 `json:"discount_price"`
	Stock             *int     `json:"stock"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	WarehouseLocation *string  `json:"warehouse_location"`
}

// POST /vendor/products
func CreateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input createProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product := &models.Product{
			ShopID:      input.ShopID,
			Name:        input.Name,
			Description: input.Description,
			Image:       input.Image,
		}
		for _, v := range input.Variants {
			variant := models.ProductVariant{
				Barcode:           v.Barcode,
				Price:             v.Price,
				DiscountPrice:     v.DiscountPrice,
				Stock:             v.Stock,
				LowStockThreshold: v.LowStockThreshold,
				WarehouseLocation: v.WarehouseLocation,
			}
			for name, value := range v.Attributes {
				variant.Attributes = append(variant.Attributes, models.VariantAttribute{Name: name, Value: value})
			}
			product.Variants = append(product.Variants, variant)
		}

		if err := catalog.CreateProduct(c.Request.Context(), middleware.Actor(c), product); err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /vendor/products/:id
func UpdateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input updateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, err := catalog.UpdateProduct(c.Request.Context(), middleware.Actor(c), id,
			input.Name, input.Description, input.Image)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /vendor/products/:id
func DeleteProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := catalog.DeleteProduct(c.Request.Context(), middleware.Actor(c), id); err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// PATCH /vendor/variants/:id
func UpdateVariant(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input updateVariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		variant, err := catalog.UpdateVariant(c.Request.Context(), middleware.Actor(c), id, services.VariantUpdate{
			Price:             input.Price,
			DiscountPrice:     input.DiscountPrice,
			Stock:             input.Stock,
			LowStockThreshold: input.LowStockThreshold,
			WarehouseLocation: input.WarehouseLocation,
		})
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variant)
	}
}

// GET /vendor/products/low-stock?shop_id=
func LowStock(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID := queryUint(c, "shop_id")
		if shopID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop_id is required"})
			return
		}

		variants, err := catalog.LowStock(c.Request.Context(), middleware.Actor(c), shopID)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variants)
	}
}
