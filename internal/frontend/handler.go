package frontend

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewSPAHandler serves the embedded dashboard with an index.html
// fallback so client-side routes resolve
func NewSPAHandler(distFS fs.FS) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(distFS))

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/assets/") {
			c.Header("Cache-Control", "public, max-age=31536000, immutable")
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}

		cleanPath := strings.TrimPrefix(path, "/")
		if cleanPath == "" {
			cleanPath = "."
		}

		if cleanPath != "." {
			if _, err := fs.Stat(distFS, cleanPath); err == nil {
				c.Header("Cache-Control", "public, max-age=3600")
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}

		serveIndex(c, distFS, path)
	}
}

func serveIndex(c *gin.Context, distFS fs.FS, path string) {
	indexFile, err := distFS.Open("index.html")
	if err != nil {
		slog.Error("Failed to open index.html", "error", err, "path", path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer indexFile.Close()

	content, err := io.ReadAll(indexFile)
	if err != nil {
		slog.Error("Failed to read index.html", "error", err, "path", path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}
