package web

import (
	"context"
	"net/http"
	"time"

	"portal/internal/database"
	"portal/internal/session"

	"github.com/gin-gonic/gin"
)

// Index handles GET / regardless of session state
func Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

// Home handles GET /home; it only runs behind RequireSession
func Home(c *gin.Context) {
	sess, ok := CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Email":     sess.Email,
		"ExpiresAt": sess.ExpiresAt,
	})
}

// HealthHandler reports the status of the session store and, when one is
// configured, the database
func HealthHandler(sessions session.Manager, db database.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		response := gin.H{"status": "healthy"}

		store := map[string]string{"status": "up"}
		if err := sessions.Health(ctx); err != nil {
			store = map[string]string{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
		}
		response["session_store"] = store

		if db != nil {
			dbHealth := db.Health(ctx)
			if dbHealth["status"] != "up" {
				status = http.StatusServiceUnavailable
			}
			response["database"] = dbHealth
		}

		if status != http.StatusOK {
			response["status"] = "unhealthy"
		}
		c.JSON(status, response)
	}
}
