package handler

import (
	"go.uber.org/zap"

	"github.com/defford/Epic/internal/player"
	"github.com/defford/Epic/internal/protocol"
)

// ProcessMessage decodes one frame and routes it into the hub. Frames that
// do not decode are logged and dropped; the connection stays open.
func (h *WebSocketHandler) ProcessMessage(p *player.Player, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		p.Log.Warn("frame dropped", zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case protocol.SearchGame:
		h.Hub.Search(p)
	case protocol.CancelSearch:
		h.Hub.Cancel(p)
	case protocol.GameAction:
		h.Hub.HandleAction(p, m.Action)
	}
}
