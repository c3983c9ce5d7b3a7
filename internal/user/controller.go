package user

import (
	"errors"
	"net/http"

	"bill_tracker/internal/middleware"
	"bill_tracker/internal/observability"
	"bill_tracker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService  UserServiceInterface
	sessions     *session.Store
	cookieName   string
	secureCookie bool
}

func NewUserController(userService UserServiceInterface, sessions *session.Store, cookieName string, secureCookie bool) *UserController {
	return &UserController{
		userService:  userService,
		sessions:     sessions,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// Register handles user registration
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := uc.userService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	observability.GlobalMetrics.UsersRegisteredTotal.Inc()

	if err := uc.establishSession(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	})
}

// Login handles user login and establishes a session
func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := uc.userService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			observability.GlobalMetrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	observability.GlobalMetrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	if err := uc.establishSession(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	})
}

// Logout destroys the session and clears the cookie
func (uc *UserController) Logout(c *gin.Context) {
	if v, exists := c.Get(middleware.SessionIDKey); exists {
		if sid, ok := v.(string); ok {
			if err := uc.sessions.Destroy(c.Request.Context(), sid); err != nil {
				logrus.WithError(err).Error("Failed to destroy session")
			}
		}
	}

	observability.GlobalMetrics.SessionsActive.Dec()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(uc.cookieName, "", -1, "/", "", uc.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the session's user projection
func (uc *UserController) Me(c *gin.Context) {
	data, err := middleware.GetSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    data.UserID,
		"name":  data.Name,
		"email": data.Email,
	})
}

func (uc *UserController) establishSession(c *gin.Context, u *User) error {
	sid, err := uc.sessions.Create(c.Request.Context(), session.Data{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create session")
		return err
	}

	observability.GlobalMetrics.SessionsActive.Inc()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(uc.cookieName, sid, int(session.TTL.Seconds()), "/", "", uc.secureCookie, true)
	return nil
}
