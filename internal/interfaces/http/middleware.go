package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/service"
	"github.com/garyjia/erp-admin-console/internal/session"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// requestIDMiddleware keeps the caller's request id or assigns one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ViewIDHeader names the page view a list request belongs to. A newer list
// request from the same view supersedes an older one still in flight; requests
// without it are never superseded.
const ViewIDHeader = "X-View-ID"

func viewIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(ViewIDHeader); id != "" {
			c.Request = c.Request.WithContext(service.WithViewID(c.Request.Context(), id))
		}
		c.Next()
	}
}

// sessionMiddleware rejects requests without a live session. An expired
// token is cleared so the operator is sent back to the login page once.
func sessionMiddleware(s *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.Authenticated() {
			c.Next()
			return
		}

		if s.Token() != "" {
			_ = s.Clear(c.Request.Context())
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
			Success:  false,
			Error:    apperr.MsgUnauthorized,
			Redirect: session.LoginRoute,
		})
	}
}
