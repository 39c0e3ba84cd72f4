package utils

import (
	"net/http"

	"github.com/allinsys/contactforms/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a success response with data
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data))
}

// HandleCreated sends a created response with data
func HandleCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, common.NewSuccessResponse(data))
}

// HandleRaw sends data as the whole body, without the envelope
func HandleRaw(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
