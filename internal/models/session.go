package models

import (
	"time"

	"github.com/segmentio/ksuid"
)

// ChatSession is one websocket connection to the chat recommender
type ChatSession struct {
	ID           string    `json:"id"`
	RemoteAddr   string    `json:"remote_addr"`
	ConnectedAt  time.Time `json:"connected_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	Messages     int       `json:"messages"`
}

// ChatFrameError is sent back on a frame that could not be processed
type ChatFrameError struct {
	Error string `json:"erro"`
}

func NewChatSession(remoteAddr string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:           ksuid.New().String(),
		RemoteAddr:   remoteAddr,
		ConnectedAt:  now,
		LastActiveAt: now,
	}
}

// Touch records activity on the session
func (s *ChatSession) Touch() {
	s.LastActiveAt = time.Now()
	s.Messages++
}
