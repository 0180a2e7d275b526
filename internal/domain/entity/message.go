package entity

import (
	"strings"
	"time"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageVideo MessageType = "video"
)

type SendStatus string

const (
	SendSending SendStatus = "sending"
	SendSent    SendStatus = "sent"
	SendFailed  SendStatus = "failed"
)

const (
	// SelfSenderID marks messages written by the viewer.
	SelfSenderID = "me"
	// TempIDPrefix starts every client-generated id; server ids never do.
	TempIDPrefix = "tmp_"
)

type Media struct {
	URL string `json:"url"`
}

// ChatMessage carries Text for text messages and Media for image/video ones, never both.
type ChatMessage struct {
	ID         string      `json:"id"`
	RoomID     string      `json:"roomId"`
	SenderID   string      `json:"senderId"`
	Type       MessageType `json:"type"`
	Text       string      `json:"text,omitempty"`
	Media      *Media      `json:"media,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	SendStatus SendStatus  `json:"sendStatus"`
}

func (m ChatMessage) IsMine() bool {
	return m.SenderID == SelfSenderID
}

func (m ChatMessage) IsTemporary() bool {
	return strings.HasPrefix(m.ID, TempIDPrefix)
}

// Content returns the text or the media reference, whichever the type carries.
func (m ChatMessage) Content() string {
	if m.Type == MessageText {
		return m.Text
	}
	if m.Media == nil {
		return ""
	}
	return m.Media.URL
}

// Message is the backend record of a chat message.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"senderId"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
