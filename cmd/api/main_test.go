package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"product-extractor/internal/types"
)

func newTestServer() *Server {
	return NewServer(logrus.New(), types.DefaultConfig(), nil)
}

func post(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body)))

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleExtract_Success(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<span id="productTitle">The Psychology of Money</span>`))
	}))
	defer page.Close()

	rec, resp := post(t, newTestServer().Routes(), `{"url": "`+page.URL+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "The Psychology of Money", resp.Data.Product.Title)
	assert.Equal(t, types.DefaultPrice, resp.Data.Product.Price)
}

func TestHandleExtract_MissingURL(t *testing.T) {
	rec, resp := post(t, newTestServer().Routes(), `{"url": "  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "No url provided", resp.Error)
}

func TestHandleExtract_InvalidBody(t *testing.T) {
	rec, resp := post(t, newTestServer().Routes(), `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", resp.Error)
}

func TestHandleExtract_UnknownSite(t *testing.T) {
	rec, resp := post(t, newTestServer().Routes(), `{"url": "https://example.com/p", "site": "nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, "no adapter found")
}

func TestHandleExtract_UpstreamFailure(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer page.Close()

	rec, resp := post(t, newTestServer().Routes(), `{"url": "`+page.URL+`"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "403")
}

func TestHandleExtract_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extract", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())
}
