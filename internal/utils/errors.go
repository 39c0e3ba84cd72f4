package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/allinsys/contactforms/internal/api/dto/common"
	"github.com/allinsys/contactforms/internal/api/validation"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// HandleAPIError is a utility function for consistent error handling across the API.
// Raw error details are only exposed outside release mode.
func HandleAPIError(c *gin.Context, err error, status int, code common.ErrorCode, message string) {
	logger := logging.GetGlobalLogger()
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	var errorDetails interface{}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		errorDetails = err.Error()
	}

	c.AbortWithStatusJSON(status, common.NewErrorResponse(code, message, errorDetails))
}

// HandleServiceError maps service layer errors to HTTP responses
func HandleServiceError(c *gin.Context, err error) {
	var dup *service.DuplicateFieldError
	switch {
	case errors.As(err, &dup):
		c.AbortWithStatusJSON(http.StatusConflict, common.NewErrorResponse(
			common.ErrCodeConflict,
			"A contact with this "+dup.Field+" already exists",
			common.DuplicateDetails{Field: dup.Field, Value: dup.Value},
		))
	case errors.Is(err, service.ErrInvalidWebsite):
		c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
			common.ErrCodeBadRequest, "Invalid website identifier", err.Error(),
		))
	case errors.Is(err, service.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
			common.ErrCodeValidation, "Invalid request", err.Error(),
		))
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, common.NewErrorResponse(
			common.ErrCodeNotFound, "Contact not found", nil,
		))
	default:
		HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Internal server error")
	}
}

// HandleBindError reports a request that failed binding or validation
func HandleBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
			common.ErrCodeValidation, "Invalid request", validation.FormatValidationError(err),
		))
		return
	}

	message := "Invalid request body"
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var numErr *strconv.NumError
	switch {
	case errors.Is(err, io.EOF):
		message = "Request body is empty"
	case errors.As(err, &syntaxErr):
		message = "Malformed JSON"
	case errors.As(err, &typeErr):
		message = "Field " + typeErr.Field + " has the wrong type"
	case errors.As(err, &numErr):
		message = "Invalid number " + strconv.Quote(numErr.Num)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(common.ErrCodeBadRequest, message, nil))
}
