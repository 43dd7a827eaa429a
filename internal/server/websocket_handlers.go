package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/docstruct/tably/internal/extract"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketExtractResponse streams extraction progress: one "page" message
// per reconstructed page, then a "completed" message with the full result.
type WebSocketExtractResponse struct {
	Type      string              `json:"type"`
	Status    string              `json:"status"` // "processing", "page", "completed", "error"
	Progress  float64             `json:"progress,omitempty"`
	Page      *extract.PageResult `json:"page,omitempty"`
	Result    *extract.Result     `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	ErrorType string              `json:"error_type,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// extractWebSocketHandler handles WebSocket connections for streaming
// extraction: clients post ExtractRequest messages and receive per-page
// results as soon as each page is reconstructed.
func (s *Server) extractWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketExtract(conn, data)
		}
	}
}

// handleWebSocketExtract processes one extraction request message.
func (s *Server) handleWebSocketExtract(conn *websocket.Conn, data []byte) {
	var req ExtractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("failed to parse request: %v", err))
		return
	}
	if req.Document == nil || len(req.Document.Pages) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "request carries no document pages")
		return
	}

	cfg, mode, err := s.extractConfig(&req)
	if err != nil {
		s.sendWebSocketError(conn, "invalid_request", err.Error())
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)
	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "processing",
		RequestID: requestID,
	})

	ex := extract.New(cfg)
	result := &extract.Result{Filename: req.Document.Filename}
	total := len(req.Document.Pages)
	start := time.Now()

	for i, page := range req.Document.Pages {
		pr := ex.ProcessPage(page)
		result.AddPage(pr)

		s.sendWebSocketResponse(conn, WebSocketExtractResponse{
			Type:      "extract_response",
			Status:    "page",
			Progress:  float64(i+1) / float64(total),
			Page:      &pr,
			RequestID: requestID,
		})
	}

	extractRequestsTotal.WithLabelValues(mode, "success").Inc()
	extractDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	extractPagesProcessed.Observe(float64(total))
	extractRowsReconstructed.Observe(float64(len(result.Rows)))

	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    result,
		RequestID: requestID,
	})
}

// sendWebSocketResponse marshals and sends a response message.
func (s *Server) sendWebSocketResponse(conn *websocket.Conn, resp WebSocketExtractResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to marshal WebSocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("failed to send WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over the connection.
func (s *Server) sendWebSocketError(conn *websocket.Conn, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
