package bill

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bill_tracker/internal/category"
	"bill_tracker/internal/middleware"
	"bill_tracker/internal/month"
	"bill_tracker/internal/observability"

	"github.com/gin-gonic/gin"
)

type BillController struct {
	service BillServiceInterface
}

func NewBillController(service BillServiceInterface) *BillController {
	return &BillController{
		service: service,
	}
}

// List handles GET /bills with filter and pagination query parameters
func (bc *BillController) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	q, ok := bc.parseListQuery(c)
	if !ok {
		return
	}

	result, err := bc.service.List(userID, *q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}

	data := make([]BillResponse, 0, len(result.Bills))
	for _, b := range result.Bills {
		data = append(data, b.Response())
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"page":  result.Page,
			"limit": result.Limit,
			"total": result.Total,
		},
	})
}

// Create handles POST /bills
func (bc *BillController) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := bc.service.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		case errors.Is(err, ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
		}
		return
	}

	observability.GlobalMetrics.BillsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update handles PUT /bills/:id with a partial payload
func (bc *BillController) Update(c *gin.Context) {
	userID, id, ok := bc.userAndBillID(c)
	if !ok {
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bc.service.Update(userID, id, &req); err != nil {
		switch {
		case errors.Is(err, ErrEmptyUpdate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		case errors.Is(err, ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		case errors.Is(err, ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles DELETE /bills/:id
func (bc *BillController) Delete(c *gin.Context) {
	userID, id, ok := bc.userAndBillID(c)
	if !ok {
		return
	}

	if err := bc.service.Delete(userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bill"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Pay handles POST /bills/:id/pay
func (bc *BillController) Pay(c *gin.Context) {
	userID, id, ok := bc.userAndBillID(c)
	if !ok {
		return
	}

	var req struct {
		PaidAt *string `json:"paid_at"`
	}
	// An empty body means "paid today"
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := bc.service.MarkPaid(userID, id, req.PaidAt); err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark bill as paid"})
		}
		return
	}

	observability.GlobalMetrics.BillsPaidTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Reopen handles POST /bills/:id/reopen
func (bc *BillController) Reopen(c *gin.Context) {
	userID, id, ok := bc.userAndBillID(c)
	if !ok {
		return
	}

	if err := bc.service.Reopen(userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen bill"})
		return
	}

	observability.GlobalMetrics.BillsReopenedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Categories handles GET /bills/meta/categories
func (bc *BillController) Categories(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categories, err := bc.service.ListCategories(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	if categories == nil {
		categories = []*category.Category{}
	}

	c.JSON(http.StatusOK, categories)
}

func (bc *BillController) parseListQuery(c *gin.Context) (*ListQuery, bool) {
	q := ListQuery{Page: 1}

	if monthStr := c.Query("month"); monthStr != "" {
		m, err := month.Parse(monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
			return nil, false
		}
		q.Month = m
	} else {
		q.Month = month.Current(time.Now())
	}

	status, err := ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return nil, false
	}
	q.Status = status

	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return nil, false
		}
		q.CategoryID = &categoryID
	}

	q.Search = c.Query("search")

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return nil, false
		}
		if page < 1 {
			page = 1
		}
		q.Page = page
	}

	return &q, true
}

func (bc *BillController) userAndBillID(c *gin.Context) (int, int64, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return 0, 0, false
	}

	return userID, id, true
}
