package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/writetutor/internal/review"
	"github.com/ziadkadry99/writetutor/internal/tutor"
)

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "submit", "next" or "explain"
	Content string `json:"content,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string     `json:"type"` // "turns" or "error"
	Turns     []turnView `json:"turns,omitempty"`
	Busy      bool       `json:"busy"`
	Reviewing bool       `json:"reviewing"`
	Content   string     `json:"content,omitempty"`
}

// connection is one browser tab and its conversation.
type connection struct {
	d    *Dashboard
	ws   *websocket.Conn
	conv *review.Conversation

	// writeMu serialises websocket writes and guards seen.
	writeMu sync.Mutex
	seen    uint64
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer ws.Close()

	// Requests outlive the upgrade handler's context but not the socket.
	ctx, cancel := context.WithCancel(context.Background())

	c := &connection{d: d, ws: ws}
	c.conv = review.NewConversation(d.cfg.Analyzer, d.cfg.Explainer,
		review.WithLogger(d.logger),
		review.WithOnChange(c.push),
	)
	c.conv.Greet()

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.logger.Warn("websocket read", "error", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case "submit":
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.report(c.conv.Submit(ctx, req.Content))
			}()
		case "next":
			c.report(c.conv.Next())
		case "explain":
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.report(c.conv.Explain(ctx))
			}()
		default:
			c.sendError("unknown message type: " + req.Type)
		}
	}
}

// report turns a rejected action into an error message for the client.
func (c *connection) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, tutor.ErrEmptyText):
		c.sendError("content is required")
	case errors.Is(err, review.ErrBusy):
		c.sendError("espera a que termine la petición en curso")
	case errors.Is(err, review.ErrReviewInProgress):
		c.sendError("termina la revisión actual antes de enviar otro texto")
	case errors.Is(err, review.ErrNoSession):
		c.sendError("no hay ninguna revisión en curso")
	default:
		c.d.logger.Error("conversation action", "error", err)
		c.sendError(err.Error())
	}
}

// push sends the turns the client has not seen yet along with the current
// busy and review state.
func (c *connection) push() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	turns := c.conv.Log().Since(c.seen)
	if n := len(turns); n > 0 {
		c.seen = turns[n-1].Seq
	}
	resp := chatResponse{
		Type:      "turns",
		Turns:     c.d.project(turns),
		Busy:      c.conv.Busy(),
		Reviewing: c.conv.Reviewing(),
	}
	if err := c.ws.WriteJSON(resp); err != nil {
		c.d.logger.Debug("websocket write", "error", err)
	}
}

func (c *connection) sendError(message string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	resp := chatResponse{Type: "error", Content: message}
	if err := c.ws.WriteJSON(resp); err != nil {
		c.d.logger.Debug("websocket write error", "error", err)
	}
}
