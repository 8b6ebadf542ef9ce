package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/hackathon-system/services"
)

func TestServerErrorOmitsDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	mapServiceErrorToHTTP(rr, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	doc := decodeErrors(t, rr)
	assert.Equal(t, "500", doc.Errors[0].Status)
	assert.Equal(t, "Internal Server Error", doc.Errors[0].Title)
	// Причина не утекает в ответ.
	assert.Empty(t, doc.Errors[0].Detail)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestLogoStorageDisabledMapsToServiceUnavailable(t *testing.T) {
	rr := httptest.NewRecorder()
	mapServiceErrorToHTTP(rr, services.ErrLogoStorageDisabled)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestReadJSONRejectsTrailingValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"a":1}{"b":2}`))
	rr := httptest.NewRecorder()

	var dst map[string]interface{}
	err := readJSON(rr, req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single JSON value")
}

func TestReadJSONRejectsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(""))
	rr := httptest.NewRecorder()

	var dst map[string]interface{}
	err := readJSON(rr, req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}
