package api

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	mimeJSON = "application/json"
	mimeHTML = "text/html"

	formatKey = "format"
)

var articlesTemplate = template.Must(template.New("articles").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Articles</title></head>
<body>
<ul>
{{- range .}}
<li id="article-{{.ID}}">{{.Title}}</li>
{{- end}}
</ul>
</body>
</html>
`))

// NewServer creates a new HTTP server with all routes configured.
// mode is one of gin.ReleaseMode, gin.DebugMode or gin.TestMode.
func NewServer(handler *Handler, mode string) *gin.Engine {
	gin.SetMode(mode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.SetHTMLTemplate(articlesTemplate)

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/articles", accepts(mimeJSON, mimeHTML), handler.GetArticles)
	r.GET("/available", accepts(mimeJSON), handler.GetAvailable)

	r.GET("/health", handler.GetHealth)

	r.GET("/", handler.GetIndex)

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "path": c.Request.URL.Path})
	})
}

// accepts rejects requests whose Accept header names none of the given
// media types with 406. The negotiated type is stored under formatKey.
func accepts(mediaTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.NegotiateFormat(mediaTypes...)
		if format == "" {
			c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{
				"error":     "not acceptable",
				"supported": mediaTypes,
			})
			return
		}

		c.Set(formatKey, format)
		c.Next()
	}
}
