package middlewares

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
)

// Recovery turns a panicking request into a 500 response and reports the
// panic to sentry when a client is configured.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Srv.Criticalf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(err)
					sentry.Flush(time.Second * 2)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, api.RespErr(api.CodeError500, "internal error"))
			}
		}()
		c.Next()
	}
}
