package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"addressbook-api/internal/handler"
	"addressbook-api/internal/repository"
	"addressbook-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAddressService(repository.NewMemoryRepository(), nil)
	return newRouter(handler.NewAddressHandler(svc))
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	w := do(newTestRouter(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Swagger(t *testing.T) {
	w := do(newTestRouter(), http.MethodGet, "/swagger/doc.json", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/addresses/distance")
}

func TestRouter_AddressLifecycle(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodPost, "/addresses", `{"name":"Marunouchi","latitude":35.681236,"longitude":139.767125}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Marunouchi","latitude":35.681236,"longitude":139.767125}`, w.Body.String())

	w = do(r, http.MethodPost, "/addresses", `{"name":"Osaka","latitude":34.6937,"longitude":135.5023}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/addresses/distance?latitude=35.68&longitude=139.76&distance=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Marunouchi","latitude":35.681236,"longitude":139.767125}]`, w.Body.String())

	w = do(r, http.MethodPut, "/addresses/1", `{"name":"Tokyo Station"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Tokyo Station","latitude":35.681236,"longitude":139.767125}`, w.Body.String())

	w = do(r, http.MethodDelete, "/addresses/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Tokyo Station","latitude":35.681236,"longitude":139.767125}`, w.Body.String())

	w = do(r, http.MethodDelete, "/addresses/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"address not found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/addresses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":2,"name":"Osaka","latitude":34.6937,"longitude":135.5023}]`, w.Body.String())
}
