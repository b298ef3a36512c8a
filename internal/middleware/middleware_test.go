package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/si-mbkm/mbkm-api/internal/models"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

type staticValidator map[string]*models.JWTClaims

func (v staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newProtectedRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := staticValidator{
		"koor":  {UserID: "u-1", Role: models.RoleKoorMBKM},
		"mhs": {UserID: "u-2", Role: models.RoleMahasiswa, NIPOrNIM: "2101"},
	}
	r := gin.New()
	r.GET("/resource", JWT(validator), RequireRoles(roles...), func(c *gin.Context) {
		claims, _ := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"role": claims.(*models.JWTClaims).Role})
	})
	return r
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newProtectedRouter(models.RoleKoorMBKM)

	cases := map[string]string{
		"missing":   "",
		"no scheme": "koor",
		"basic":     "Basic koor",
		"empty":     "Bearer ",
		"unknown":   "Bearer forged",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRBACAllowsListedRole(t *testing.T) {
	r := newProtectedRouter(models.RoleKoorMBKM, models.RoleAdminSIAP)

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "bearer koor")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "koor_mbkm", body["role"])
}

func TestRBACForbidsOtherRoles(t *testing.T) {
	r := newProtectedRouter(models.RoleKoorMBKM)

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer mhs")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrForbidden.Code, body["code"])
}

func TestRBACWithoutClaimsIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/resource", RequireRoles(models.RoleKoorMBKM), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resource", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{method: method, route: path, status: status})
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/program-mbkm/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/program-mbkm/7", "/health", "/nowhere/42"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.seen, 2)
	assert.Equal(t, observation{method: http.MethodGet, route: "/program-mbkm/:id", status: http.StatusNoContent}, observer.seen[0])
	assert.Equal(t, observation{method: http.MethodGet, route: unmatchedRoute, status: http.StatusNotFound}, observer.seen[1])
}
