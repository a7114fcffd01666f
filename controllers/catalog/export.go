package catalogControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/bazario-dev/marketplace-api/services"
)

// GET /admin/products/export
// One row per variant so stock and warehouse data land in the sheet.
func ExportProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.Products(c.Request.Context(), queryUint(c, "shop_id"), 0, 0)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Catalog")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ProductID", "ShopID", "Name", "SalesCount",
			"VariantID", "Barcode", "Price", "DiscountPrice",
			"Stock", "LowStockThreshold", "WarehouseLocation",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			for _, v := range p.Variants {
				row := sheet.AddRow()
				row.AddCell().SetValue(p.ID)
				row.AddCell().SetValue(p.ShopID)
				row.AddCell().SetValue(p.Name)
				row.AddCell().SetValue(p.SalesCount)
				row.AddCell().SetValue(v.ID)
				row.AddCell().SetValue(v.Barcode)
				row.AddCell().SetValue(v.Price)
				row.AddCell().SetValue(v.DiscountPrice)
				row.AddCell().SetValue(v.Stock)
				row.AddCell().SetValue(v.LowStockThreshold)
				row.AddCell().SetValue(v.WarehouseLocation)
			}
		}

		c.Header("Content-Disposition", "attachment; filename=catalog.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
