package middleware

import "github.com/gin-gonic/gin"

// abortError writes the API error envelope and stops the chain:
//
//	{ "request_id": "...", "error": { "type": "...", "description": "..." } }
func abortError(c *gin.Context, status int, typ, desc string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"error": gin.H{
			"type":        typ,
			"description": desc,
		},
	})
}
