package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/allinsys/contactforms/internal/api/constants"
	"github.com/allinsys/contactforms/internal/api/dto/v1/contact"
	"github.com/allinsys/contactforms/internal/api/sanitization"
	"github.com/allinsys/contactforms/internal/api/validation"
	"github.com/allinsys/contactforms/internal/models"
	"github.com/allinsys/contactforms/internal/service"
	"github.com/allinsys/contactforms/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ValidationMiddleware binds and validates requests before they reach handlers
type ValidationMiddleware struct{}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware() *ValidationMiddleware {
	validation.RegisterGinValidators()
	return &ValidationMiddleware{}
}

// ValidateContactRequest decodes a contact form submission, sanitizes it and
// then validates the cleaned values
func (m *ValidationMiddleware) ValidateContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contact.CreateContactRequest
		body := c.Request.Body
		if body == nil {
			body = http.NoBody
		}
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			utils.HandleBindError(c, err)
			return
		}

		sanitization.SanitizeContactRequest(&req)
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			utils.HandleBindError(c, err)
			return
		}

		c.Set(constants.ContextKeyContact, &req)
		c.Next()
	}
}

// ValidateListQuery validates the list endpoint query string
func (m *ValidationMiddleware) ValidateListQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query contact.ListContactsQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			utils.HandleBindError(c, err)
			return
		}

		c.Set(constants.ContextKeyListContact, &query)
		c.Next()
	}
}

// ValidateWebsiteParam rejects unknown :website path values before the body is read
func (m *ValidationMiddleware) ValidateWebsiteParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		website := c.Param("website")
		if !models.Website(website).IsValid() {
			utils.HandleServiceError(c, fmt.Errorf("%w: %q", service.ErrInvalidWebsite, website))
			return
		}
		c.Next()
	}
}
