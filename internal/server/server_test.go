package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/allinsys/contactforms/internal/config"
	"github.com/allinsys/contactforms/internal/metrics"
	"github.com/allinsys/contactforms/internal/repository"
	"github.com/allinsys/contactforms/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type harness struct {
	handler http.Handler
	repo    *repository.MemoryContactRepository
}

// steppingClock returns strictly increasing timestamps
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithRecaptcha(t, nil)
}

func newHarnessWithRecaptcha(t *testing.T, recaptcha *service.RecaptchaService) *harness {
	t.Helper()

	repo := repository.NewMemoryContactRepository(repository.WithClock(steppingClock()))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	cfg := &config.Config{
		Environment: "test",
		Port:        "0",
		StoreDriver: config.StoreMemory,
		PhoneRegion: "BR",
	}
	srv := NewServer(cfg, Dependencies{
		ContactService: service.NewContactService(repo, cfg.PhoneRegion, m),
		Recaptcha:      recaptcha,
		Metrics:        m,
		Gatherer:       reg,
	})

	return &harness{handler: srv.Handler(), repo: repo}
}

func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h *harness) submit(website, body string) *httptest.ResponseRecorder {
	return h.do(http.MethodPost, "/api/v1/contact/"+website, body)
}

func (h *harness) count(t *testing.T) int {
	t.Helper()
	all, err := h.repo.List(context.Background(), repository.ContactFilter{})
	require.NoError(t, err)
	return len(all)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func contactBody(name, email, phone string) string {
	return fmt.Sprintf(`{"fullName":%q,"email":%q,"phone":%q,"objective":"Conhecer a plataforma","source":"internet"}`, name, email, phone)
}

func TestSubmitAndGetByID(t *testing.T) {
	h := newHarness(t)

	w := h.submit("allinsys", contactBody("Maria Silva", "maria@example.com", "(11) 99999-9999"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "Contact submitted successfully", created.Message)
	require.NotEmpty(t, created.ID)

	w = h.do(http.MethodGet, "/api/v1/contact/id/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, created.ID, record["id"])
	assert.Equal(t, "Maria Silva", record["fullName"])
	assert.Equal(t, "allinsys", record["website"])
	assert.NotContains(t, record, "phoneKey")
	assert.NotEmpty(t, record["createdAt"])
}

func TestSubmitDuplicateEmailAcrossWebsites(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusCreated, h.submit("allinsys", contactBody("Ana", "ana@example.com", "")).Code)

	w := h.submit("passb2b", contactBody("Ana Souza", "ana@example.com", ""))
	require.Equal(t, http.StatusConflict, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	assert.JSONEq(t, `{"field":"email","value":"ana@example.com"}`, string(env.Error.Details))

	contacts, err := h.repo.List(t.Context(), repository.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestSubmitDuplicatePhone(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusCreated, h.submit("abavsp", contactBody("Ana", "ana@example.com", "(11) 99999-9999")).Code)

	w := h.submit("allinsys", contactBody("Bia", "bia@example.com", "(11) 99999-9999"))
	require.Equal(t, http.StatusConflict, w.Code)

	env := decodeEnvelope(t, w)
	assert.Contains(t, string(env.Error.Details), `"field":"phone"`)
}

func TestSubmitTrimsEmailBeforeValidating(t *testing.T) {
	h := newHarness(t)

	w := h.submit("bloodcasted", `{"fullName":"Carla","email":" c@x.com ","objective":"Parceria"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// the stored, trimmed email still catches duplicates
	w = h.submit("allinsys", `{"fullName":"Carla","email":"c@x.com","objective":"Parceria"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitPhoneInAnotherFormatIsAccepted(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusCreated, h.submit("allinsys", contactBody("Ana", "ana@example.com", "+55 11 98765-4321")).Code)

	w := h.submit("passb2b", contactBody("Bia", "bia@example.com", "11987654321"))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSubmitInvalidWebsite(t *testing.T) {
	h := newHarness(t)

	w := h.submit("bloodcated", contactBody("Ana", "ana@example.com", ""))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decodeEnvelope(t, w).Error.Code)

	contacts, err := h.repo.List(t.Context(), repository.ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestSubmitValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing full name", `{"email":"a@example.com","objective":"x"}`},
		{"blank full name", `{"fullName":"   ","email":"a@example.com","objective":"x"}`},
		{"bad email", `{"fullName":"Ana","email":"nope","objective":"x"}`},
		{"missing objective", `{"fullName":"Ana","email":"a@example.com"}`},
		{"unknown source", `{"fullName":"Ana","email":"a@example.com","objective":"x","source":"tv"}`},
		{"bad linkedin", `{"fullName":"Ana","email":"a@example.com","objective":"x","linkedin":"linkedin/ana"}`},
		{"long name", fmt.Sprintf(`{"fullName":%q,"email":"a@example.com","objective":"x"}`, strings.Repeat("a", 101))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.submit("allinsys", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
		})
	}
}

func TestListPagination(t *testing.T) {
	h := newHarness(t)

	for i := 1; i <= 15; i++ {
		w := h.submit("passb2b", contactBody(fmt.Sprintf("Contact %02d", i), fmt.Sprintf("c%02d@example.com", i), ""))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := h.do(http.MethodGet, "/api/v1/contact?page=2&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Items []struct {
			FullName string `json:"fullName"`
		} `json:"items"`
		Meta  map[string]int    `json:"meta"`
		Links map[string]string `json:"links"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))

	require.Len(t, page.Items, 5)
	// newest first: page 2 holds the five oldest
	assert.Equal(t, "Contact 05", page.Items[0].FullName)
	assert.Equal(t, "Contact 01", page.Items[4].FullName)
	assert.Equal(t, map[string]int{
		"totalItems": 15, "itemCount": 5, "itemsPerPage": 10, "totalPages": 2, "currentPage": 2,
	}, page.Meta)
	assert.Equal(t, "/api/v1/contact?page=1&limit=10", page.Links["first"])
	assert.Equal(t, "/api/v1/contact?page=1&limit=10", page.Links["previous"])
	assert.Empty(t, page.Links["next"])
	assert.Empty(t, page.Links["last"])
}

func TestListFiltersAndErrors(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusCreated, h.submit("allinsys", contactBody("Ana Lima", "ana@acme.com", "")).Code)
	require.Equal(t, http.StatusCreated, h.submit("passb2b", contactBody("Bruno", "bruno@example.com", "")).Code)

	w := h.do(http.MethodGet, "/api/v1/contact?website=passb2b", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bruno")
	assert.NotContains(t, w.Body.String(), "Ana Lima")

	w = h.do(http.MethodGet, "/api/v1/contact?search=ACME", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Lima")
	assert.NotContains(t, w.Body.String(), "Bruno")

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/v1/contact?limit=101", "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/v1/contact?page=0", "").Code)

	w = h.do(http.MethodGet, "/api/v1/contact?website=unknown&source=radio", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), `"field":"website","tag":"website"`)
	assert.Contains(t, string(env.Error.Details), `"field":"source","tag":"contactsource"`)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/v1/contact?startDate=yesterday", "").Code)
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/contact", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"items": [],
		"meta": {"totalItems":0,"itemCount":0,"itemsPerPage":10,"totalPages":0,"currentPage":1},
		"links": {"first":"","previous":"","next":"","last":""}
	}`, string(decodeEnvelope(t, w).Data))
}

func TestGetByIDNotFound(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/contact/id/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}

func TestListByWebsite(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusCreated, h.submit("abavsp", contactBody("Primeiro", "p@example.com", "")).Code)
	require.Equal(t, http.StatusCreated, h.submit("allinsys", contactBody("Outro", "o@example.com", "")).Code)
	require.Equal(t, http.StatusCreated, h.submit("abavsp", contactBody("Segundo", "s@example.com", "")).Code)

	w := h.do(http.MethodGet, "/api/v1/contact/website/abavsp", "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Segundo", records[0]["fullName"])
	assert.Equal(t, "Primeiro", records[1]["fullName"])

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/v1/contact/website/unknown", "").Code)
}

func TestTrailingSlash(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/v1/contact/", "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health/", "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)

	require.Equal(t, http.StatusCreated, h.submit("allinsys", contactBody("Ana", "ana@example.com", "")).Code)

	w = h.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `contactforms_intake_submissions_total{outcome="created",website="allinsys"} 1`)
	assert.Contains(t, w.Body.String(), `contactforms_http_requests_total{method="POST",route="/api/v1/contact/:website",status="201"} 1`)
}

func TestSecurityAndRequestIDHeaders(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSubmitRecaptcha(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("response") == "human" {
			fmt.Fprint(w, `{"success":true,"score":0.9,"action":"submit"}`)
			return
		}
		fmt.Fprint(w, `{"success":true,"score":0.1,"action":"submit"}`)
	}))
	defer google.Close()

	recaptcha := service.NewRecaptchaService("secret", 0.5).WithVerifyURL(google.URL)
	h := newHarnessWithRecaptcha(t, recaptcha)

	body := `{"fullName":"Ana","email":"ana@example.com","objective":"Demo","recaptchaToken":"bot"}`
	w := h.submit("abavsp", body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	assert.Equal(t, "reCAPTCHA verification failed", env.Error.Message)
	assert.Zero(t, h.count(t))

	body = `{"fullName":"Ana","email":"ana@example.com","objective":"Demo","recaptchaToken":"human"}`
	w = h.submit("abavsp", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, h.count(t))
}
