package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleRoot(t *testing.T) {
	t.Setenv("BGUARD_VERSION", "1.2.3")

	w := httptest.NewRecorder()
	handleRoot()(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"name":"BGuard Suite","version":"1.2.3"}`, w.Body.String())
}

func TestHandleStatus(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		health := &MockHealthStore{}
		health.On("CheckConnectivity", mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		handleStatus(health)(w, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("database down", func(t *testing.T) {
		health := &MockHealthStore{}
		health.On("CheckConnectivity", mock.Anything).Return(errors.New("connection refused"))

		w := httptest.NewRecorder()
		handleStatus(health)(w, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unreachable")
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
