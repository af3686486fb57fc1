package utils

import "github.com/gin-gonic/gin"

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{
		"success": true,
		"data":    data,
	})
}

// SuccessList 返回带条数的成功响应
func SuccessList(c *gin.Context, total int, data interface{}) {
	c.JSON(200, gin.H{
		"success": true,
		"total":   total,
		"data":    data,
	})
}

// SuccessFields 返回成功响应并附带额外字段
func SuccessFields(c *gin.Context, fields gin.H) {
	res := gin.H{"success": true}
	for k, v := range fields {
		res[k] = v
	}
	c.JSON(200, res)
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not found"
	}
	Error(c, 404, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(c, 500, message)
}
