package donation

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ishaan583/foodshare/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// asUser stands in for the auth middleware.
func asUser(c *gin.Context) {
	c.Set(auth.ContextUserID, c.GetHeader("X-Test-User"))
	c.Next()
}

func setupRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(svc, zap.NewNop())
	r := gin.New()
	g := r.Group("/donations", asUser)
	{
		g.POST("", h.Create)
		g.GET("/mine", h.ListMine)
		g.GET("/impact", h.Impact)
		g.GET("/available", h.ListAvailable)
		g.POST("/:id/request", h.Request)
		g.POST("/:id/pickup", h.ConfirmPickup)
		g.POST("/:id/photo", h.UploadPhoto)
	}
	return r
}

func call(r http.Handler, method, path, user string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createVia(t *testing.T, r http.Handler, user string) Donation {
	t.Helper()

	body := []byte(`{"food_type":"cooked","quantity_kg":12.5,"expiry_hours":4,"location":"Hostel 4 Mess","description":"Rice and dal"}`)
	w := call(r, http.MethodPost, "/donations", user, body, "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var d Donation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	return d
}

func TestHandlerCreate(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := setupRouter(svc)

	d := createVia(t, r, "donor-1")

	assert.Equal(t, "donor-1", d.DonorID)
	assert.Equal(t, StatusAvailable, d.Status)
	assert.Equal(t, 12.5, d.QuantityKg)
}

func TestHandlerCreate_BadBodies(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := setupRouter(svc)

	bodies := []string{
		`{}`,
		`{"food_type":"frozen","quantity_kg":1,"expiry_hours":1,"location":"x"}`,
		`{"food_type":"cooked","quantity_kg":-2,"expiry_hours":1,"location":"x"}`,
		`{"food_type":"cooked","quantity_kg":1,"expiry_hours":0,"location":"x"}`,
		`not json`,
	}
	for _, body := range bodies {
		w := call(r, http.MethodPost, "/donations", "donor-1", []byte(body), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestHandlerTransitions(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := setupRouter(svc)

	d := createVia(t, r, "donor-1")

	w := call(r, http.MethodPost, "/donations/"+d.ID+"/request", "ngo-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"RESERVED"`)

	w = call(r, http.MethodPost, "/donations/"+d.ID+"/request", "ngo-2", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(r, http.MethodPost, "/donations/"+d.ID+"/pickup", "donor-9", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/donations/"+d.ID+"/pickup", "donor-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PICKED_UP"`)

	w = call(r, http.MethodPost, "/donations/unknown/request", "ngo-1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, http.MethodGet, "/donations/impact", "donor-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_donations":1,"food_saved_kg":12.5,"people_fed":15}`, w.Body.String())
}

func TestHandlerExpiredRequestIsGone(t *testing.T) {
	svc, _, clk := newTestService(nil)
	r := setupRouter(svc)

	d := createVia(t, r, "donor-1")
	clk.advance(5 * time.Hour)

	w := call(r, http.MethodPost, "/donations/"+d.ID+"/request", "ngo-1", nil, "")
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestHandlerListings(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := setupRouter(svc)

	createVia(t, r, "donor-1")
	createVia(t, r, "donor-1")

	w := call(r, http.MethodGet, "/donations/mine?limit=1", "donor-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []Donation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	w = call(r, http.MethodGet, "/donations/available", "ngo-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listings []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 2)
	assert.Equal(t, "high", listings[0]["urgency"])
	assert.Equal(t, 4.0, listings[0]["hours_left"])
	assert.Equal(t, "cooked", listings[0]["food_type"])
}

func multipartPhoto(t *testing.T, filename string) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestHandlerUploadPhoto(t *testing.T) {
	store := &fakeStore{}
	svc, _, _ := newTestService(store)
	r := setupRouter(svc)

	d := createVia(t, r, "donor-1")

	body, ct := multipartPhoto(t, "tray.png")
	w := call(r, http.MethodPost, "/donations/"+d.ID+"/photo", "donor-1", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://cdn.test/donations/"+d.ID+"/")

	body, ct = multipartPhoto(t, "tray.gif")
	w = call(r, http.MethodPost, "/donations/"+d.ID+"/photo", "donor-1", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/donations/"+d.ID+"/photo", "donor-1", []byte("{}"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerUploadPhoto_StorageDisabled(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := setupRouter(svc)

	d := createVia(t, r, "donor-1")

	body, ct := multipartPhoto(t, "tray.png")
	w := call(r, http.MethodPost, "/donations/"+d.ID+"/photo", "donor-1", body, ct)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
