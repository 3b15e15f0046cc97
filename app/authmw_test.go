package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"land_records_lending/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"none", func(r *http.Request) {}, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AppSessionCookie, Value: "c1"}) }, "c1"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer b1") }, "b1"},
		{"cookie first", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AppSessionCookie, Value: "c1"})
			r.Header.Set("Authorization", "Bearer b1")
		}, "c1"},
		{"other scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic xyz") }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c.Request)
			assert.Equal(t, tt.want, SessionID(c))
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	run := func(uid string, role models.Role) int {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			if uid != "" {
				c.Set(CtxUserID, uid)
				c.Set(CtxRole, role)
			}
			c.Next()
		}, RequireRole(models.RoleAdmin, models.RoleSectionHead), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run("", ""))
	assert.Equal(t, http.StatusForbidden, run("u1", models.RoleUser))
	assert.Equal(t, http.StatusNoContent, run("u1", models.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, run("u1", models.RoleSectionHead))
}

func TestValidationDetails(t *testing.T) {
	assert.NoError(t, RegisterValidators())
	type req struct {
		Kind models.DocumentType `binding:"required,doctype"`
	}
	err := binding.Validator.ValidateStruct(req{Kind: "map"})
	details := ValidationDetails(err)
	assert.Equal(t, map[string]string{"Kind": "doctype"}, details)
	assert.NoError(t, binding.Validator.ValidateStruct(req{Kind: models.DocSurveyDeed}))
}
