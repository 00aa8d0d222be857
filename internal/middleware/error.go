package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONRecovery recovers from handler panics and answers with a generic JSON
// error instead of a dropped connection. Panic details go to the log only;
// they never reach the guest.
func JSONRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
