package http

import (
	"encoding/json"
	"log"
	"net/http"

	"trivia-session-service/internal/app"
	"trivia-session-service/internal/domain"
	"github.com/gorilla/websocket"
)

// DefaultLeaderboardLimit caps leaderboard reads when the client does not
// ask for a specific size.
const DefaultLeaderboardLimit = 10

type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type saveScorePayload struct {
	Name string `json:"name"`
}

type timerPayload struct {
	Seconds int `json:"seconds"`
}

type withTimerPayload struct {
	Enabled bool `json:"enabled"`
}

type leaderboardPayload struct {
	Limit int `json:"limit"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz
// session use cases. One websocket connection owns one session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.service.Join(sessionID)
	defer h.service.Leave(sessionID)

	updates, cancel, err := h.service.Subscribe(sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// Startup category load; r.Context() cancels it if the client is gone
	// before the provider responds, which must stay silent.
	go func() {
		if err := h.service.LoadCategories(r.Context(), sessionID); err != nil {
			log.Printf("category load failed for session %s: %v", sessionID, err)
		}
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, sessionID, inbound, send, writerDone)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch routes one inbound message. Replies go through trySend so a
// writer that already exited on a write error cannot wedge the read loop
// once the send buffer fills.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage, send chan<- outboundMessage[any], writerDone <-chan struct{}) {
	switch inbound.Type {
	case "start":
		var opts domain.QuizOptions
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &opts); err != nil {
				trySend(send, writerDone, errorMessage("invalid quiz options payload"))
				return
			}
		}
		if opts.Amount == "" {
			opts.Amount = "5"
		}
		// Runs in its own goroutine so a newer start can supersede the fetch.
		go func() {
			if err := h.service.Submit(r.Context(), sessionID, opts); err != nil {
				log.Printf("question load failed for session %s: %v", sessionID, err)
			}
		}()
	case "answer":
		answer, err := decodeAnswer(inbound.Payload)
		if err != nil {
			trySend(send, writerDone, errorMessage("invalid answer payload"))
			return
		}
		if err := h.service.RecordAnswer(sessionID, answer); err != nil {
			trySend(send, writerDone, errorMessage(err.Error()))
		}
	case "saveScore":
		var payload saveScorePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			trySend(send, writerDone, errorMessage("invalid save payload"))
			return
		}
		// Validation and store failures surface on the session's transient
		// error channel; nothing extra to send here.
		_ = h.service.SaveScore(r.Context(), sessionID, payload.Name)
	case "reset":
		if err := h.service.Reset(sessionID); err != nil {
			trySend(send, writerDone, errorMessage(err.Error()))
		}
	case "timer":
		var payload timerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			trySend(send, writerDone, errorMessage("invalid timer payload"))
			return
		}
		_ = h.service.SetTimer(sessionID, payload.Seconds)
	case "withTimer":
		var payload withTimerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			trySend(send, writerDone, errorMessage("invalid withTimer payload"))
			return
		}
		_ = h.service.SetWithTimer(sessionID, payload.Enabled)
	case "leaderboard":
		limit := DefaultLeaderboardLimit
		if len(inbound.Payload) > 0 {
			var payload leaderboardPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err == nil && payload.Limit > 0 {
				limit = payload.Limit
			}
		}
		entries, err := h.service.Leaderboard(r.Context(), limit)
		if err != nil {
			trySend(send, writerDone, errorMessage("failed to load leaderboard"))
			return
		}
		trySend(send, writerDone, outboundMessage[any]{Type: "leaderboard", Payload: entries})
	default:
		trySend(send, writerDone, errorMessage("unsupported message type"))
	}
}

// trySend queues an outbound message unless the writer goroutine has exited.
func trySend(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) {
	select {
	case send <- msg:
	case <-writerDone:
	}
}

// decodeAnswer accepts either an answer object or JSON null, which records
// a skipped/timed-out question.
func decodeAnswer(payload json.RawMessage) (*domain.Answer, error) {
	if len(payload) == 0 || string(payload) == "null" {
		return nil, nil
	}
	var answer domain.Answer
	if err := json.Unmarshal(payload, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
