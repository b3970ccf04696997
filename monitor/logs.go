// logs.go
package monitor

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultTailBytes = 64 << 10
	maxTailBytes     = 1 << 20
)

// RegisterLogsRoute exposes the tail of the backend log file on group.
// Callers are expected to guard group with admin-only middleware.
func RegisterLogsRoute(group *gin.RouterGroup, logPath string) {
	group.GET("/logs", func(c *gin.Context) {
		limit := int64(defaultTailBytes)
		if raw := c.Query("bytes"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bytes must be a positive integer"})
				return
			}
			limit = parsed
		}
		if limit > maxTailBytes {
			limit = maxTailBytes
		}

		data, err := TailFile(logPath, limit)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Log file not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
	})
}

// TailFile returns at most limit bytes from the end of path.
func TailFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	offset := info.Size() - limit
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(f, limit))
}
