package mockserver

import (
	"net/http"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// requireSession rejects requests without a live session cookie
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cnst.CookieName)
		if err != nil || cookie == "" {
			s.reject(c, "missing session cookie")
			return
		}

		claims, err := s.tokens.Validate(cookie)
		if err != nil {
			s.reject(c, err.Error())
			return
		}

		sess, err := s.sessions.Get(c.Request.Context(), claims.ID)
		if err != nil {
			s.reject(c, err.Error())
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (s *Server) reject(c *gin.Context, reason string) {
	s.logger.Debug("rejecting request",
		zap.String("path", c.FullPath()),
		zap.String("reason", reason))

	status := http.StatusOK
	if s.cfg.Auth.RejectWithStatus {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, proto.GeneralResponse{
		Code: cnst.CodeSessionExpired,
		Msg:  "session expired",
	})
}
