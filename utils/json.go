package utils

import (
	"DropDock/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Success writes a success JSON response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{
		"code": "OK",
		"data": data,
	})
}

// Fail writes an error JSON response with a stable machine code.
func Fail(c *gin.Context, err error) {
	e := apperr.FromError(err)
	c.JSON(e.Status, gin.H{
		"code": e.Code,
		"msg":  e.Message,
	})
}
