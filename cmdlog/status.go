package cmdlog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/pkg/logger"
)

// Status is a point-in-time view of the client's place in the shard, used
// by the owning node for liveness and catch-up checks.
type Status struct {
	Stream    string `json:"stream"`
	Shard     int    `json:"shard"`
	Position  int64  `json:"position"`
	EndOffset int64  `json:"endOffset"`
	CaughtUp  bool   `json:"caughtUp"`
}

// StatusProvider returns the current status. The handler never touches the
// read side itself, so the owner decides how status reads are serialized
// with polling.
type StatusProvider func() (Status, error)

// LogStatus builds a provider that queries the client directly. Position and
// EndOffset are read-side operations, so this provider may only be invoked
// by the goroutine that owns the read side.
func LogStatus(stream string, shard int, clog api.CommandLog) StatusProvider {
	return func() (Status, error) {
		pos, err := clog.Position()
		if err != nil {
			return Status{}, err
		}
		end, err := clog.EndOffset()
		if err != nil {
			return Status{}, err
		}
		return Status{
			Stream:    stream,
			Shard:     shard,
			Position:  pos,
			EndOffset: end,
			CaughtUp:  pos >= end,
		}, nil
	}
}

// statusHandler implements the http.Handler interface.
type statusHandler struct {
	provider StatusProvider
	logger   *slog.Logger
}

func NewStatusHandler(provider StatusProvider, log *slog.Logger) http.Handler {
	return &statusHandler{provider: provider, logger: log}
}

func (h *statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, err := h.provider()
	if err != nil {
		h.logger.Warn("failed to read shard status", logger.ErrAttr(err))
		http.Error(w, "failed to read shard status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Warn("failed to encode shard status", logger.ErrAttr(err))
		http.Error(w, "failed to encode shard status", http.StatusInternalServerError)
	}
}
