package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailEnvelopeCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCourseNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrCourseNotFound, body.Error.Code)
	assert.Equal(t, "Course not found in the catalog.", body.Error.Message)
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestGetMessageFallback(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage("SOMETHING_ELSE"))
}
