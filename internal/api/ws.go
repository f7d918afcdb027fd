package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/luxplan/luxplan-go/internal/services/placement"
	"github.com/luxplan/luxplan-go/internal/services/pubsub"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second

	updateBuffer = 16
	endBuffer    = 4
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for WebSocket
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsSolveMessage is the client request: a calculate payload plus the light it
// belongs to.
type wsSolveMessage struct {
	Type    string `json:"type"`
	LightID string `json:"light_id"`
	calculateRequest
}

type wsResultMessage struct {
	Type                string  `json:"type"`
	LightID             string  `json:"light_id"`
	Distance            float64 `json:"distance"`
	Intensity           float64 `json:"intensity"`
	ExposureWarning     *string `json:"exposure_warning"`
	CalculationModeText string  `json:"calculation_mode_text"`
}

type wsErrorMessage struct {
	Type    string `json:"type"`
	LightID string `json:"light_id,omitempty"`
	Error   string `json:"error"`
}

// HandleWS upgrades the connection and runs one placement session over it.
// Solve results come back asynchronously through the session's pubsub
// subscription, which the writer goroutine drains; the reader only feeds
// requests into the placement service.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	session := h.placements.StartSession()
	updates := h.events.Subscribe(pubsub.TopicPlacementUpdated, session.ID, updateBuffer)
	ended := h.events.Subscribe(pubsub.TopicSessionEnded, session.ID, endBuffer)
	errCh := make(chan wsErrorMessage, 8)

	go h.writeLoop(conn, updates, ended, errCh)

	defer func() {
		h.placements.EndSession(session.ID)
		h.events.Unsubscribe(updates)
		h.events.Unsubscribe(ended)
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg wsSolveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendError(errCh, wsErrorMessage{Type: "error", Error: "invalid JSON message"})
			continue
		}
		if msg.Type != "solve" {
			sendError(errCh, wsErrorMessage{
				Type:    "error",
				LightID: msg.LightID,
				Error:   fmt.Sprintf("unknown message type %q", msg.Type),
			})
			continue
		}

		if _, err := h.placements.UpdateLight(session.ID, msg.LightID, msg.toSolverRequest()); err != nil {
			if errors.Is(err, placement.ErrSessionClosed) {
				return
			}
			sendError(errCh, wsErrorMessage{Type: "error", LightID: msg.LightID, Error: err.Error()})
		}
	}
}

// writeLoop is the only writer on the connection. It drains the session's
// subscriptions and the reader's error channel until either subscription
// closes or the session ends.
func (h *Handler) writeLoop(conn *websocket.Conn, updates, ended *pubsub.Subscriber, errCh <-chan wsErrorMessage) {
	defer func() { _ = conn.Close() }()

	for {
		select {
		case msg, ok := <-updates.Channel:
			if !ok {
				return
			}
			update, isUpdate := msg.(placement.Update)
			if !isUpdate {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsResultMessage{
				Type:                "result",
				LightID:             update.LightID,
				Distance:            update.Result.Distance,
				Intensity:           update.Result.Intensity,
				ExposureWarning:     warningJSON(update.Result.Warning),
				CalculationModeText: update.Result.ModeText,
			}); err != nil {
				return
			}

		case msg, ok := <-ended.Channel:
			if !ok {
				return
			}
			if _, isEnd := msg.(placement.End); !isEnd {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteJSON(wsErrorMessage{Type: "error", Error: "session expired"})
			return

		case e := <-errCh:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		}
	}
}

// sendError hands an error message to the writer without ever blocking the
// read loop.
func sendError(errCh chan<- wsErrorMessage, msg wsErrorMessage) {
	select {
	case errCh <- msg:
	default:
	}
}
