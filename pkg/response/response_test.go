package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vypar/pkg/apperr"
	"github.com/shashiranjanraj/vypar/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.EqualValues(t, 200, body["status"])
	assert.Equal(t, "world", body["data"].(map[string]interface{})["hello"])
}

func TestAppErrorMapsKind(t *testing.T) {
	rec := httptest.NewRecorder()
	response.AppError(rec, apperr.New(apperr.NotFound, "Product with ID 9 not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Product with ID 9 not found", body["message"])
}

func TestAppErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	response.AppError(rec, errors.New("dsn=user:pass@host"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotContains(t, rec.Body.String(), "dsn=")
}

func TestValidationErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationError(rec, map[string]string{"name": "The name field is required."})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestPaginatedMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Paginated(rec, []int{1, 2}, response.Meta{Offset: 0, Limit: 2, Count: 2, Total: 9})

	body := decode(t, rec)
	data := body["data"].(map[string]interface{})
	meta := data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 9, meta["total"])
	assert.EqualValues(t, 2, meta["count"])
}
