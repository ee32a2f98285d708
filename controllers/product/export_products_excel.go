package productcontroller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/lojak57/baseform-api/store"
)

// ExportProductsToExcel streams the catalog as an xlsx download.
func ExportProductsToExcel(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.GetAllProducts()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Slug", "Name", "Description", "Price", "CategoryID",
			"HasFabricSelection", "Images", "Fabrics", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range list {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.CategoryID)
			row.AddCell().SetValue(p.HasFabricSelection)
			row.AddCell().SetValue(strings.Join(p.DefaultImages, ";"))

			var fabrics []string
			for _, f := range p.Fabrics {
				fabrics = append(fabrics, fmt.Sprintf("%s:%s:%g", f.Code, f.Label, f.Upcharge))
			}
			row.AddCell().SetValue(strings.Join(fabrics, "|"))

			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
