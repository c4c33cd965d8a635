package controllers

import "github.com/gin-gonic/gin"

// getUserID extracts the authenticated user ID injected by the auth middleware.
func getUserID(ctx *gin.Context) (string, bool) {
	v, exists := ctx.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
