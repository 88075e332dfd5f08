package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome reports the service banner.
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Loan Application Backend API v1"})
}
