package dto

import "github.com/gin-gonic/gin"

// Response is the envelope every REST reply uses.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

// Fail writes a failure envelope carrying a user-facing message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// FailError writes a failure envelope carrying an error string. The auth
// surface reports failures under "message"; the entity surfaces use
// "error". Both shapes come from the envelope contract.
func FailError(c *gin.Context, status int, errMsg string) {
	c.JSON(status, Response{Success: false, Error: errMsg})
}
