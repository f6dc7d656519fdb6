package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) States(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.geo.StatesOf(country)})
}

func (h HandlerSet) Cities(c *gin.Context) {
	country, state := c.Query("country"), c.Query("state")
	if country == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country and state are required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.geo.CitiesOf(country, state)})
}
