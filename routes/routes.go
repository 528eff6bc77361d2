package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/tceeservices/connect-africa-go/config"
	controllers "github.com/tceeservices/connect-africa-go/controllers"
	middleware "github.com/tceeservices/connect-africa-go/middleware"
	payments "github.com/tceeservices/connect-africa-go/payments"
	store "github.com/tceeservices/connect-africa-go/store"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, s store.Store, gw payments.Gateway) {
	api := r.Group("/api/v1")

	// public
	api.GET("/campaigns", controllers.ListCampaigns(cfg))
	api.GET("/blogs", controllers.ListBlogs(cfg))
	api.GET("/blogs/:slug", controllers.GetBlogBySlug(cfg))
	api.GET("/gallery", controllers.ListGallery(cfg))
	api.POST("/contact", controllers.SubmitContact(cfg))
	api.POST("/subscribe", controllers.Subscribe(cfg))

	// donations
	api.POST("/donations/initiate", controllers.InitiateDonation(cfg, s, gw))
	api.POST("/donations/webhook", controllers.MonnifyWebhook(cfg, s))

	// admin
	api.POST("/admin/login", controllers.Login(cfg))

	auth := middleware.AuthMiddleware(cfg)

	admin := api.Group("/admin")
	admin.Use(auth)
	{
		admin.POST("/campaigns", controllers.CreateCampaign(cfg))
		admin.GET("/campaigns", controllers.ListCampaigns(cfg))
		admin.GET("/campaigns/emergency-check", controllers.EmergencyCheck(cfg))
		admin.PUT("/campaigns/:id", controllers.UpdateCampaign(cfg))
		admin.DELETE("/campaigns/:id", controllers.DeleteCampaign(cfg))

		admin.POST("/blogs", controllers.CreateBlog(cfg))
		admin.GET("/blogs", controllers.ListBlogs(cfg))
		admin.PUT("/blogs/unset-featured", controllers.UnsetFeaturedBlogs(cfg))
		admin.PUT("/blogs/:id", controllers.UpdateBlog(cfg))
		admin.DELETE("/blogs/:id", controllers.DeleteBlog(cfg))

		admin.POST("/gallery", controllers.CreateGalleryItem(cfg))
		admin.GET("/gallery", controllers.ListGallery(cfg))
		admin.PUT("/gallery/:id", controllers.UpdateGalleryItem(cfg))
		admin.DELETE("/gallery/:id", controllers.DeleteGalleryItem(cfg))

		admin.GET("/donations", controllers.ListDonations(cfg))
		admin.GET("/subscribers", controllers.ListSubscribers(cfg))

		admin.GET("/settings", controllers.GetSettings(cfg))
		admin.PUT("/settings", controllers.UpdateSettings(cfg))
	}
}
