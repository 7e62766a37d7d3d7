package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/sse"
)

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// EventHandler streams table changes and live dashboard overviews over SSE
type EventHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

func NewEventHandler(hub *sse.Hub, jwtService jwt.Service) EventHandler {
	return &eventHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		keepalive:  30 * time.Second,
	}
}

// streamTopics reads ?topics=a,b and keeps only known topics. Empty means all of them.
func streamTopics(r *http.Request) []string {
	known := make(map[string]bool, len(changefeed.Tables)+1)
	all := append([]string{dashboard.LiveTopic}, changefeed.Tables...)
	for _, t := range all {
		known[t] = true
	}

	raw := r.URL.Query().Get("topics")
	if raw == "" {
		return all
	}
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if known[t] {
			topics = append(topics, t)
		}
	}
	return topics
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *eventHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	topics := streamTopics(r)
	if len(topics) == 0 {
		http.Error(w, "No known topics requested", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// One merged channel for every requested topic
	events := make(chan sse.Event, 16)
	for _, topic := range topics {
		ch, cleanup := h.hub.Subscribe(topic)
		defer cleanup()
		go func(topic string, ch chan sse.Event) {
			for ev := range ch {
				ev.Topic = topic
				select {
				case events <- ev:
				case <-r.Context().Done():
					return
				}
			}
		}(topic, ch)
	}

	connected, _ := json.Marshal(map[string]interface{}{"status": "connected", "user_id": userID, "topics": topics})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", connected)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event := <-events:
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s.%s\ndata: %s\n\n", event.Topic, event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
