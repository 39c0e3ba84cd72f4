package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/allinsys/contactforms/internal/api/constants"
	"github.com/allinsys/contactforms/internal/api/dto/v1/contact"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS(CORSConfig{AllowedOrigins: []string{"https://allinsys.com.br"}}))
	router.GET("/x", ok)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantHeader string
	}{
		{"allowed origin", http.MethodGet, "https://allinsys.com.br", http.StatusOK, "https://allinsys.com.br"},
		{"unknown origin", http.MethodGet, "https://evil.example.com", http.StatusForbidden, ""},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "https://allinsys.com.br", http.StatusNoContent, "https://allinsys.com.br"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSPermissive(t *testing.T) {
	router := gin.New()
	router.Use(CORS(CORSConfig{Permissive: true}))
	router.GET("/x", ok)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/x", RateLimitMiddleware(RateLimitConfig{RPS: 0.001, Burst: 2}), ok)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimitDisabled(t *testing.T) {
	router := gin.New()
	router.POST("/x", RateLimitMiddleware(RateLimitConfig{}), ok)

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		seen = c.GetString(constants.ContextKeyRequestID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(constants.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderRequestID, "req-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", seen)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/x", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestValidateContactRequest(t *testing.T) {
	var bound *contact.CreateContactRequest
	router := gin.New()
	router.POST("/x", NewValidationMiddleware().ValidateContactRequest(), func(c *gin.Context) {
		bound = c.MustGet(constants.ContextKeyContact).(*contact.CreateContactRequest)
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := post(`{"fullName":"Ana","email":"ana@example.com","objective":"Demo","source":"feira"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, bound)
	assert.Equal(t, "Ana", bound.FullName)

	w = post(`{"fullName":"Ana","email":"not-an-email","objective":"Demo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"field":"email"`)

	w = post(`{"fullName":"Ana","email":"ana@example.com","objective":"Demo","source":"tv"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "contactsource")

	w = post(`{"fullName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")

	w = post("")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Request body is empty")
}

func TestValidateContactRequestSanitizesBeforeValidating(t *testing.T) {
	var bound *contact.CreateContactRequest
	router := gin.New()
	router.POST("/x", NewValidationMiddleware().ValidateContactRequest(), func(c *gin.Context) {
		bound = c.MustGet(constants.ContextKeyContact).(*contact.CreateContactRequest)
		c.Status(http.StatusOK)
	})

	body := `{"fullName":"  Ana   Souza ","email":" c@x.com ","phone":" 11 98765-4321 ","objective":"Demo"}`
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, bound)
	assert.Equal(t, "c@x.com", bound.Email)
	assert.Equal(t, "Ana Souza", bound.FullName)
	assert.Equal(t, "11 98765-4321", bound.Phone)
}

func TestValidateListQuery(t *testing.T) {
	router := gin.New()
	router.GET("/x", NewValidationMiddleware().ValidateListQuery(), ok)

	get := func(query string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?"+query, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("page=2&limit=100"))
	assert.Equal(t, http.StatusBadRequest, get("page=0"))
	assert.Equal(t, http.StatusBadRequest, get("limit=101"))
	assert.Equal(t, http.StatusBadRequest, get("limit=abc"))
	assert.Equal(t, http.StatusOK, get("website=passb2b&source=feira"))
	assert.Equal(t, http.StatusBadRequest, get("website=example"))
	assert.Equal(t, http.StatusBadRequest, get("source=radio"))
}
