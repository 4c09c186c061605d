package render

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietcharge/vietcharge/internal/apperrors"
)

// Envelope shape as clients see it
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Meta struct {
		Timestamp  string `json:"timestamp"`
		Page       int    `json:"page"`
		Total      int    `json:"total"`
		TotalPages int    `json:"totalPages"`
	} `json:"meta"`
}

func doRequest(t *testing.T, handler http.HandlerFunc, body string) (*http.Response, envelope) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+"/test", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "response should be an envelope. Resp: %s", raw)
	return resp, env
}

func TestRender_JSON(t *testing.T) {
	resp, env := doRequest(t, func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, map[string]any{"key1": 1, "key2": "222"})
	}, "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"key1":1,"key2":"222"}`, string(env.Data))
	assert.NotEmpty(t, env.Meta.Timestamp)
	assert.Nil(t, env.Error)
}

func TestRender_JSONWithMeta(t *testing.T) {
	resp, env := doRequest(t, func(w http.ResponseWriter, _ *http.Request) {
		JSONWithMeta(w, []int{1, 2}, Pagination(2, 10, 21))
	}, "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 21, env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages, "21 items over pages of 10 is 3 pages")
	assert.NotEmpty(t, env.Meta.Timestamp, "pagination must not drop the timestamp")
}

func TestRender_Error(t *testing.T) {
	t.Run("app error keeps its kind and status", func(t *testing.T) {
		resp, env := doRequest(t, func(w http.ResponseWriter, _ *http.Request) {
			Error(w, apperrors.ErrForbidden)
		}, "")

		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.False(t, env.Success)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("unknown error hides detail", func(t *testing.T) {
		resp, env := doRequest(t, func(w http.ResponseWriter, _ *http.Request) {
			Error(w, io.ErrUnexpectedEOF)
		}, "")

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.NotContains(t, env.Error.Message, "EOF", "internal detail must not leak")
	})
}

func TestRender_BindAndValidate(t *testing.T) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		data, err := BindAndValidate[LoginRequest](w, r)
		if err != nil {
			return
		}
		JSON(w, data)
	}

	t.Run("valid payload passes", func(t *testing.T) {
		resp, env := doRequest(t, handler, `{"email":"driver@example.com","password":"pwd-12345"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, env.Success)
	})

	t.Run("broken json", func(t *testing.T) {
		resp, env := doRequest(t, handler, `not-json`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("wrong field type names the field", func(t *testing.T) {
		resp, env := doRequest(t, handler, `{"email":"driver@example.com","password":123}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Message, "password")
	})

	t.Run("validation failures reported per field with json names", func(t *testing.T) {
		resp, env := doRequest(t, handler, `{"email":"not-an-email","password":"short"}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Fields, "email")
		assert.Contains(t, env.Error.Fields, "password")
		assert.Equal(t, "Must be a valid email address", env.Error.Fields["email"])
	})
}
