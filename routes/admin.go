package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/lojak57/baseform-api/controllers/admin"
	cartControllers "github.com/lojak57/baseform-api/controllers/cart"
	productcontroller "github.com/lojak57/baseform-api/controllers/product"
	userControllers "github.com/lojak57/baseform-api/controllers/user"
	"github.com/lojak57/baseform-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(d.DB))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.Products))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Products))
			productAdmin.GET("", productcontroller.GetProducts(d.Products))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Products))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Products))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Products))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(d.DB))
			categoryAdmin.GET("", productcontroller.GetAllCategories(d.DB))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.DB))
		}

		// ─────────── Guided Product Wizard ───────────
		wizardAdmin := adminGroup.Group("/wizard")
		{
			wizardAdmin.POST("", d.Wizards.Start)
			wizardAdmin.POST("/:wizardID/basic-info", d.Wizards.SetBasicInfo)
			wizardAdmin.POST("/:wizardID/images", d.Wizards.SetImages)
			wizardAdmin.POST("/:wizardID/fabrics", d.Wizards.SetFabrics)
			wizardAdmin.POST("/:wizardID/back", d.Wizards.Back)
			wizardAdmin.POST("/:wizardID/submit", d.Wizards.Submit)
		}

		// ─────────── Admin Approval Workflow ───────────
		adminMgmt := adminGroup.Group("/admin-management")
		{
			adminMgmt.GET("/pending", adminController.ListPendingAdmins(d.DB))
			adminMgmt.POST("/approve", adminController.ApproveAdmin(d.DB))
			adminMgmt.POST("/reject", adminController.RejectAdmin(d.DB))
		}

		// ─────────── Store Settings ───────────
		settings := adminGroup.Group("/settings")
		{
			settings.GET("", adminController.GetSettings(d.DB))
			settings.PUT("", adminController.UpdateSettings(d.DB))
			settings.POST("/hero", adminController.UploadHeroImage(d.DB))
		}

		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminUserCart(d.Carts))
		}
	}
}
