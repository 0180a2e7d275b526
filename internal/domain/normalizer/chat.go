package normalizer

import (
	"strings"

	"secondhand/internal/domain/entity"
)

func (n *Normalizer) ChatSummary(raw any) entity.ChatSummary {
	m := asMap(raw)
	c := entity.ChatSummary{
		ID:           firstString(m, "id", "roomId", "chatRoomId"),
		PeerNickname: firstString(m, "otherNickname", "peerNickname", "peer.nickname", "sellerNickname", "buyerNickname"),
		LastMessage:  firstString(m, "lastMessage", "lastMessageContent", "lastMessage.content"),
	}
	if c.PeerNickname == "" {
		c.PeerNickname = AnonymousNickname
	}
	if v, ok := first(m, "lastMessageAt", "lastMessageTime", "updatedAt"); ok {
		c.LastMessageAt = asTime(v)
	}
	if unread, ok := firstInt(m, "unreadCount", "unread", "unreadMessages"); ok {
		c.UnreadCount = int(clampNonNegative(unread))
	}
	return c
}

func (n *Normalizer) ChatSummaries(raw any) []entity.ChatSummary {
	items := listOf(raw)
	out := make([]entity.ChatSummary, 0, len(items))
	for _, item := range items {
		out = append(out, n.ChatSummary(item))
	}
	return out
}

// ChatMessage keeps exactly one of text and media populated. A media type
// with no reference degrades to a text message.
func (n *Normalizer) ChatMessage(raw any) entity.ChatMessage {
	m := asMap(raw)
	msg := entity.ChatMessage{
		ID:         firstString(m, "id", "messageId"),
		RoomID:     firstString(m, "roomId", "chatRoomId"),
		SenderID:   firstString(m, "senderId", "sender.id", "senderID"),
		SendStatus: entity.SendSent,
	}
	if n.selfID != "" && msg.SenderID == n.selfID {
		msg.SenderID = entity.SelfSenderID
	}
	if v, ok := first(m, "createdAt", "sentAt", "timestamp"); ok {
		if t := asTime(v); t != nil {
			msg.CreatedAt = *t
		}
	}
	switch st := entity.SendStatus(firstString(m, "sendStatus")); st {
	case entity.SendSending, entity.SendSent, entity.SendFailed:
		msg.SendStatus = st
	}

	kind := entity.MessageType(strings.ToLower(firstString(m, "type", "messageType")))
	mediaURL := firstString(m, "media.url", "mediaUrl", "imageUrl")
	switch kind {
	case entity.MessageImage, entity.MessageVideo:
		if mediaURL == "" {
			mediaURL = firstString(m, "content", "url")
		}
	case entity.MessageText:
	default:
		kind = entity.MessageText
		if mediaURL != "" {
			kind = entity.MessageImage
		}
	}

	if kind != entity.MessageText && mediaURL != "" {
		msg.Type = kind
		msg.Media = &entity.Media{URL: n.ResolveImageURL(mediaURL)}
		return msg
	}
	msg.Type = entity.MessageText
	msg.Text = firstString(m, "text", "content", "message")
	return msg
}

func (n *Normalizer) ChatMessages(raw any) []entity.ChatMessage {
	items := listOf(raw)
	out := make([]entity.ChatMessage, 0, len(items))
	for _, item := range items {
		out = append(out, n.ChatMessage(item))
	}
	return out
}

// RoomID reads the identifier of a created chat room ("roomId", else "id").
func (n *Normalizer) RoomID(raw any) string {
	return firstString(asMap(raw), "roomId", "id", "chatRoomId")
}
