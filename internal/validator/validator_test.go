package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/uwplan/planner-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindBody(body string) map[string]string {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.ValidateScheduleRequest
	return Bind(c, &req)
}

func TestBindReportsJSONFieldNames(t *testing.T) {
	fields := bindBody(`{"schedule": {}}`)
	assert.Contains(t, fields, "degree")
	assert.Contains(t, fields["degree"], "required")
}

func TestBindReportsDecodeErrors(t *testing.T) {
	fields := bindBody(`{"schedule": {"1A": [], "1A": []}, "degree": "Computer Science"}`)
	assert.Contains(t, fields["detail"], "1A")
}

func TestBindAcceptsValidRequest(t *testing.T) {
	assert.Nil(t, bindBody(`{"schedule": {"1A": [{"course_id": "CS 135"}]}, "degree": "Computer Science"}`))
}

func TestBindQuery(t *testing.T) {
	type query struct {
		Subject string `form:"subject" binding:"omitempty,alphanum,max=8"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?subject=C%2B%2B", nil)

	var q query
	fields := BindQuery(c, &q)
	assert.Contains(t, fields, "subject")
}

func TestStruct(t *testing.T) {
	assert.Contains(t, Struct(&model.ValidateScheduleRequest{}), "degree")
	assert.Nil(t, Struct(&model.ValidateScheduleRequest{Degree: "Mathematics"}))
}
