package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/middleware"
	"github.com/symptom-analyzer/internal/service"
)

// Chat senders
const (
	SenderUser   = "user"
	SenderSystem = "system"
)

const (
	chatWriteWait    = 10 * time.Second
	chatMaxMessage   = 8 << 10
	chatReadDeadline = 10 * time.Minute
)

// ChatMessage is one websocket frame in either direction.
type ChatMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// handleChat upgrades to a websocket. The first user message is answered
// with a greeting; every later message is analyzed and answered with a
// summary followed by the review notice.
func (s *Server) handleChat(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error
		s.logger.WithError(err).Warn("Chat upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(chatMaxMessage)
	username := c.Query("username")
	logger := s.logger.WithField("correlation_id", c.GetString(middleware.CorrelationKey))
	greeted := false

	for {
		_ = conn.SetReadDeadline(time.Now().Add(chatReadDeadline))

		var in ChatMessage
		if err := conn.ReadJSON(&in); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				logger.WithError(err).Debug("Chat connection closed")
			}
			return
		}
		if in.Text == "" {
			continue
		}

		if !greeted {
			greeted = true
			if err := s.sendChat(conn, service.Greeting(username)); err != nil {
				return
			}
			continue
		}

		result, err := s.analyzer.Analyze(c.Request.Context(), in.Text)
		if err != nil {
			logger.WithFields(logrus.Fields{"error": err.Error()}).Error("Chat analysis failed")
			if err := s.sendChat(conn, service.ChatErrorReply); err != nil {
				return
			}
			continue
		}

		if err := s.sendChat(conn, service.FormatSummary(result)); err != nil {
			return
		}
		if err := s.sendChat(conn, service.ChatReviewNotice); err != nil {
			return
		}
	}
}

func (s *Server) sendChat(conn *websocket.Conn, text string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
	return conn.WriteJSON(ChatMessage{Text: text, Sender: SenderSystem, Timestamp: time.Now().UTC()})
}
