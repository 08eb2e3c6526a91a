package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/defford/Epic/internal/hub"
)

type health struct {
	Status string `json:"status"`
	hub.Stats
}

func (h *WebSocketHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health{Status: "ok", Stats: h.Hub.Stats()}); err != nil {
		h.Log.Warn("health response failed", zap.Error(err))
	}
}
