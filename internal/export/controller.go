package export

import (
	"net/http"
	"time"

	"bill_tracker/internal/bill"
	"bill_tracker/internal/middleware"
	"bill_tracker/internal/month"
	"bill_tracker/internal/observability"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	billService bill.BillServiceInterface
}

func NewExportController(billService bill.BillServiceInterface) *ExportController {
	return &ExportController{
		billService: billService,
	}
}

// CSV handles GET /export/csv?month&status and streams the result as a
// downloadable attachment.
func (ec *ExportController) CSV(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	now := time.Now().UTC()
	m := month.Current(now)
	if monthStr := c.Query("month"); monthStr != "" {
		m, err = month.Parse(monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
			return
		}
	}

	status, err := bill.ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	bills, err := ec.billService.ListForExport(userID, m, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export bills"})
		return
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	csv := BuildCSV(bills, today)

	observability.GlobalMetrics.CSVExportsTotal.Inc()

	c.Header("Content-Disposition", `attachment; filename="contas.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
