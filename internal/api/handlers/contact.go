package handlers

import (
	"errors"
	"net/http"

	"github.com/allinsys/contactforms/internal/api/constants"
	"github.com/allinsys/contactforms/internal/api/dto/common"
	"github.com/allinsys/contactforms/internal/api/dto/v1/contact"
	"github.com/allinsys/contactforms/internal/api/mapper"
	"github.com/allinsys/contactforms/internal/service"
	"github.com/allinsys/contactforms/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService   *service.ContactService
	recaptchaService *service.RecaptchaService
}

// NewContactHandler creates the contact handler; a nil recaptchaService skips token verification
func NewContactHandler(contactService *service.ContactService, recaptchaService *service.RecaptchaService) *ContactHandler {
	return &ContactHandler{
		contactService:   contactService,
		recaptchaService: recaptchaService,
	}
}

// Submit stores a contact form sent by one of the websites
func (h *ContactHandler) Submit(c *gin.Context) {
	// Get contact data from context (set by validation middleware)
	contactData, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Contact data not found in context")
		return
	}

	req, ok := contactData.(*contact.CreateContactRequest)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Invalid contact data format")
		return
	}

	if h.recaptchaService != nil {
		err := h.recaptchaService.VerifyToken(c.Request.Context(), req.RecaptchaToken, utils.GetRealIP(c))
		if errors.Is(err, service.ErrRecaptchaFailed) {
			utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeBadRequest, "reCAPTCHA verification failed")
			return
		}
		if err != nil {
			utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Could not verify reCAPTCHA")
			return
		}
	}

	result, err := h.contactService.Submit(c.Request.Context(), mapper.CreateRequestToForm(req), c.Param("website"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.HandleRaw(c, http.StatusCreated, mapper.SubmitResultToResponse(result))
}

// List returns one page of contacts matching the query filters
func (h *ContactHandler) List(c *gin.Context) {
	queryData, exists := c.Get(constants.ContextKeyListContact)
	if !exists {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "List query not found in context")
		return
	}

	query, ok := queryData.(*contact.ListContactsQuery)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Invalid list query format")
		return
	}

	params, err := mapper.ListQueryToParams(query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	page, err := h.contactService.List(c.Request.Context(), params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.HandleSuccess(c, mapper.PageToListResponse(page, c.Request.URL.Path))
}

// GetByID returns a single contact
func (h *ContactHandler) GetByID(c *gin.Context) {
	found, err := h.contactService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.HandleSuccess(c, mapper.ContactToDTO(found))
}

// ListByWebsite returns every contact of a website, newest first
func (h *ContactHandler) ListByWebsite(c *gin.Context) {
	contacts, err := h.contactService.ListByWebsite(c.Request.Context(), c.Param("website"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.HandleSuccess(c, mapper.ContactsToDTOs(contacts))
}
