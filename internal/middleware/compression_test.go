package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressedRouter(cm *CompressionMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(cm.Handler())
	r.GET("/big", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(strings.Repeat("<svg></svg>", 500)))
	})
	r.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/binary", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", make([]byte, 4096))
	})
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompression_LargeHTMLIsGzipped(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	r := newCompressedRouter(cm)

	w := get(r, "/big", "gzip, deflate")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("<svg></svg>", 500), string(body))

	stats := cm.GetStats()
	assert.Equal(t, int64(1), stats["compressed_requests"])
	assert.Equal(t, int64(5500), stats["total_bytes"])
	assert.Less(t, stats["compressed_bytes"].(int64), int64(5500))
}

func TestCompression_Skipped(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		wantStatus     int
	}{
		{name: "client without gzip", path: "/big", acceptEncoding: "", wantStatus: http.StatusOK},
		{name: "gzip refused with q=0", path: "/big", acceptEncoding: "gzip;q=0", wantStatus: http.StatusOK},
		{name: "below min size", path: "/small", acceptEncoding: "gzip", wantStatus: http.StatusOK},
		{name: "binary content", path: "/binary", acceptEncoding: "gzip", wantStatus: http.StatusOK},
		{name: "no content", path: "/empty", acceptEncoding: "gzip", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCompressedRouter(NewCompressionMiddleware(DefaultCompressionConfig()))

			w := get(r, tt.path, tt.acceptEncoding)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Get("Content-Encoding"))
		})
	}
}

func TestCompression_SmallBodyIntact(t *testing.T) {
	r := newCompressedRouter(NewCompressionMiddleware(DefaultCompressionConfig()))

	w := get(r, "/small", "gzip")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestClientAcceptsGzip(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"gzip", true},
		{"deflate, gzip;q=1.0, *;q=0.5", true},
		{"GZIP", true},
		{"br", false},
		{"gzip;q=0", false},
		{"gzip;q=0.5", true},
		{"", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", tt.header)
		assert.Equal(t, tt.want, clientAcceptsGzip(req), "Accept-Encoding %q", tt.header)
	}
}
