// file: internal/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecotrack/internal/models"
	"ecotrack/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) *APIResponse {
	t.Helper()
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return &body
}

func TestWriteSuccess(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	builder.WriteSuccess(rec, req, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.Equal(t, "v1", body.Version)
}

func TestWriteCreated(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()

	builder.WriteCreated(rec, httptest.NewRequest(http.MethodPost, "/", nil), "made")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeBody(t, rec).Success)
}

func TestWriteErrorMapsStatus(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	cases := []struct {
		err  error
		code int
	}{
		{services.NewValidationError("bad", nil), http.StatusBadRequest},
		{services.NewNotFoundError("missing"), http.StatusNotFound},
		{services.NewUnauthorizedError("nope"), http.StatusUnauthorized},
		{services.NewForbiddenError("denied"), http.StatusForbidden},
		{errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		builder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		assert.Equal(t, tc.code, rec.Code)
		body := decodeBody(t, rec)
		assert.False(t, body.Success)
		assert.NotNil(t, body.Error)
	}
}

func TestWriteErrorMasksInternalDetails(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()

	builder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("db password is hunter2"))

	body := decodeBody(t, rec)
	assert.NotContains(t, body.Error.Message, "hunter2")
}

func TestWriteErrorUnmaskedInDevelopment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaskInternalErrors = false
	builder := NewBuilder(cfg, zap.NewNop())
	rec := httptest.NewRecorder()

	builder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("exact cause"))

	assert.Contains(t, decodeBody(t, rec).Error.Message, "exact cause")
}

func TestWritePaginated(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()

	builder.WritePaginated(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		[]string{"a", "b"},
		models.PaginationMeta{NextCursor: "abc", HasMore: true, PerPage: 2},
	)

	body := decodeBody(t, rec)
	require.NotNil(t, body.Meta)
	require.NotNil(t, body.Meta.Pagination)
	assert.True(t, body.Meta.Pagination.HasMore)
	assert.Equal(t, "abc", body.Meta.Pagination.NextCursor)
}

func TestWriteValidationError(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()

	builder.WriteValidationError(rec, httptest.NewRequest(http.MethodPost, "/", nil), "invalid input", []FieldError{
		{Field: "email", Message: "must be a valid email", Code: "email"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	require.Len(t, body.Error.Fields, 1)
	assert.Equal(t, "email", body.Error.Fields[0].Field)
}
