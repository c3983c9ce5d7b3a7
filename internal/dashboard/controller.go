package dashboard

import (
	"net/http"
	"time"

	"bill_tracker/internal/middleware"
	"bill_tracker/internal/month"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	service DashboardServiceInterface
}

func NewDashboardController(service DashboardServiceInterface) *DashboardController {
	return &DashboardController{
		service: service,
	}
}

// Summary handles GET /dashboard?month
func (dc *DashboardController) Summary(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	m := month.Current(time.Now())
	if monthStr := c.Query("month"); monthStr != "" {
		m, err = month.Parse(monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
			return
		}
	}

	summary, err := dc.service.Summary(userID, m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
