package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hiring-management-api/internal/store"
)

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays recorded responses for mutating requests carrying an
// Idempotency-Key header, so rapid double submits and multi-tab retries do
// not run the same mutation twice.
func Idempotency(st *store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		method, path := c.Request.Method, c.FullPath()
		if prev, err := st.GetIdempotentResponse(c.Request.Context(), key, method, path); err == nil {
			c.Header("Idempotent-Replay", "true")
			c.Data(prev.Status, "application/json", prev.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			err := st.SaveIdempotentResponse(c.Request.Context(), key, method, path, status, rec.buf.Bytes())
			if err != nil {
				log.Warn("saving idempotency record failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
