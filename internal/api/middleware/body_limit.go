package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/futsal-ai/pkg/utils"
)

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps
// the reader for chunked bodies. Handlers detect the cap through
// IsBodyTooLarge.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			utils.SendPayloadTooLarge(c, fmt.Sprintf("El cuerpo de la solicitud supera el límite de %d bytes", maxBytes))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from a body cut off by BodyLimit.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
