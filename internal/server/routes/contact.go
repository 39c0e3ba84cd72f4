package routes

import (
	"github.com/allinsys/contactforms/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures contact form routes
func SetupContactRoutes(router *gin.RouterGroup, contact *handlers.ContactHandler, m *Middleware) {
	group := router.Group("/contact")
	{
		// Public submit endpoint, rate limited per client
		group.POST("/:website",
			m.SubmitLimit,
			m.Validation.ValidateWebsiteParam(),
			m.Validation.ValidateContactRequest(),
			contact.Submit,
		)

		group.GET("", m.Validation.ValidateListQuery(), contact.List)
		group.GET("/id/:id", contact.GetByID)
		group.GET("/website/:website", contact.ListByWebsite)
	}
}
