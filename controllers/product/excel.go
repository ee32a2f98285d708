package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

// Sheet columns: ID, Slug, Name, Description, Price, CategoryID,
// HasFabricSelection, Images (";"-joined), Fabrics ("code:label:upcharge"
// joined with "|").

// ImportProductsFromExcel bulk-creates or updates products. Rows with an ID
// matching an existing product update it; the rest insert through the
// store, so slug checks and fabric corrections apply per row.
func ImportProductsFromExcel(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			name := get(2)
			price, priceErr := strconv.ParseFloat(get(4), 64)
			if name == "" || priceErr != nil {
				skippedCount++
				continue
			}
			hasFabrics, _ := strconv.ParseBool(get(6))

			product := models.Product{
				ID:                 get(0),
				Slug:               get(1),
				Name:               name,
				Description:        get(3),
				Price:              price,
				CategoryID:         get(5),
				HasFabricSelection: hasFabrics,
				DefaultImages:      splitList(get(7), ";"),
				Fabrics:            parseFabrics(get(8)),
			}

			if _, exists := products.ProductByID(product.ID); exists {
				if err := products.UpdateProduct(product); err == nil {
					updatedCount++
				} else {
					skippedCount++
				}
				continue
			}
			if err := products.AddProduct(product); err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

func splitList(raw, sep string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFabrics decodes "code:label:upcharge|code:label:upcharge".
func parseFabrics(raw string) []models.Fabric {
	var fabrics []models.Fabric
	for _, chunk := range splitList(raw, "|") {
		parts := strings.SplitN(chunk, ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		f := models.Fabric{Code: parts[0], Label: parts[1]}
		if len(parts) == 3 {
			f.Upcharge, _ = strconv.ParseFloat(parts[2], 64)
		}
		fabrics = append(fabrics, f)
	}
	return fabrics
}
