package cmdlog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/pkg/logger"
)

func TestStatusHandler(t *testing.T) {
	clog, _ := newTestLog(t)
	defer clog.Close()

	_, err := clog.Append(cid("a"), api.Command{Statement: "a"})
	require.NoError(t, err)

	_, log := logger.NewTestLogger()
	handler := NewStatusHandler(LogStatus("commands", 0, clog), log)

	t.Run("reports positions before catch up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var s Status
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		assert.Equal(t, "commands", s.Stream)
		assert.Equal(t, int64(0), s.Position)
		assert.Equal(t, int64(1), s.EndOffset)
		assert.False(t, s.CaughtUp)
	})

	t.Run("reports caught up after draining", func(t *testing.T) {
		_, err := clog.PollNew(pollTimeout)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var s Status
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		assert.Equal(t, int64(1), s.Position)
		assert.True(t, s.CaughtUp)
	})

	t.Run("rejects non-GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
	})
}

func TestStatusHandlerProviderError(t *testing.T) {
	_, log := logger.NewTestLogger()
	handler := NewStatusHandler(func() (Status, error) {
		return Status{}, errors.New("shard unavailable")
	}, log)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
