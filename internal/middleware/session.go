package middleware

import (
	"errors"
	"net/http"

	"bill_tracker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// UserIDKey is the gin context key holding the authenticated user's id.
	UserIDKey = "userID"
	// SessionKey is the gin context key holding the full session projection.
	SessionKey = "session"
	// SessionIDKey is the gin context key holding the opaque session id.
	SessionIDKey = "sessionID"
)

// SessionAuth loads the session referenced by the cookie and puts the
// authenticated user into the request context. Requests without a live
// session get a 401.
func SessionAuth(store *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		data, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logrus.WithError(err).Error("Failed to load session")
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, data.UserID)
		c.Set(SessionKey, data)
		c.Set(SessionIDKey, sid)
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the gin context.
func GetUserID(c *gin.Context) (int, error) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, errors.New("user not authenticated")
	}
	id, ok := v.(int)
	if !ok {
		return 0, errors.New("user not authenticated")
	}
	return id, nil
}

// GetSession extracts the session projection from the gin context.
func GetSession(c *gin.Context) (*session.Data, error) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, errors.New("user not authenticated")
	}
	data, ok := v.(*session.Data)
	if !ok {
		return nil, errors.New("user not authenticated")
	}
	return data, nil
}
