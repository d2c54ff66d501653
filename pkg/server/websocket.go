package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vpatch/pkg/protocol"
	"github.com/vango-dev/vpatch/pkg/treefile"
)

// handleWebSocket runs one live session per connection. Messages are
// processed in order on this goroutine.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.metrics.WebSocketError("upgrade")
		return
	}
	defer conn.Close()
	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}

	s := h.newSession()
	h.metrics.SessionOpened()
	defer h.metrics.SessionClosed()
	s.logger.Info("session opened", "remote", r.RemoteAddr)
	defer s.logger.Info("session closed", "seq", s.Seq())

	ctx := r.Context()
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "error", err)
				h.metrics.WebSocketError("read")
			}
			return
		}
		h.metrics.FrameIn(len(msg))

		format := treefile.FormatJSON
		if mt == websocket.BinaryMessage {
			format = treefile.FormatCBOR
		}
		doc, err := treefile.Decode(msg, format)
		if err != nil {
			h.metrics.WebSocketError("document")
			if !h.sendError(conn, s, err) {
				return
			}
			continue
		}

		frame, err := s.Apply(ctx, treefile.ToVNode(doc))
		if err != nil {
			h.metrics.WebSocketError("patch")
			if !h.sendError(conn, s, err) {
				return
			}
			continue
		}
		if !h.send(conn, s, websocket.BinaryMessage, protocol.EncodeFrame(frame)) {
			return
		}
	}
}

func (h *Handler) sendError(conn *websocket.Conn, s *Session, err error) bool {
	data, _ := json.Marshal(errorJSON(err))
	return h.send(conn, s, websocket.TextMessage, data)
}

// send writes one message and reports whether the connection is still
// usable.
func (h *Handler) send(conn *websocket.Conn, s *Session, mt int, data []byte) bool {
	if h.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	}
	if err := conn.WriteMessage(mt, data); err != nil {
		s.logger.Warn("write error", "error", err)
		h.metrics.WebSocketError("write")
		return false
	}
	h.metrics.FrameOut(len(data))
	return true
}
