package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/state/loader"
	"secondhand/internal/state/optimistic"
	"secondhand/pkg/errors"
)

type ChatRoomView struct {
	RoomID       string
	Messages     []entity.ChatMessage
	UsedFallback bool
	Superseded   bool
}

// TimelineEntry is either a day divider or a message.
type TimelineEntry struct {
	Divider string
	Message *entity.ChatMessage
}

// ChatRoomUseCase drives one open conversation. Sent messages appear at once
// as "sending"; a failed send stays in the list as "failed" until the user
// retries it.
type ChatRoomUseCase struct {
	api      MarketAPI
	catalog  *mockdata.Catalog
	norm     *normalizer.Normalizer
	notifier Notifier
	resource *loader.Resource[[]entity.ChatMessage]
	mutator  *optimistic.Mutator
	now      func() time.Time

	mu       sync.Mutex
	roomID   string
	messages []entity.ChatMessage
}

func NewChatRoomUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, notifier Notifier) *ChatRoomUseCase {
	return &ChatRoomUseCase{
		api:      api,
		catalog:  catalog,
		norm:     norm,
		notifier: notifier,
		resource: loader.NewResource[[]entity.ChatMessage]("chat.room"),
		mutator:  optimistic.New("messages"),
		now:      time.Now,
	}
}

// serverClockSkew bounds how far a server timestamp may lag behind the local
// one of the message it echoes.
const serverClockSkew = time.Minute

// Load opens roomID. Local messages that have not reached the server yet are
// kept after the fetched history when reloading the same room, unless the
// history already carries their server copy.
func (u *ChatRoomUseCase) Load(ctx context.Context, roomID string) ChatRoomView {
	res := u.resource.Load(ctx, loader.Source[[]entity.ChatMessage]{
		Remote: func(ctx context.Context) (any, error) {
			return u.api.RoomMessages(ctx, roomID)
		},
		Mock: func() (any, error) {
			return u.catalog.RoomMessages(roomID), nil
		},
		Normalize: u.norm.ChatMessages,
		Apply: func(fetched []entity.ChatMessage, _ bool) {
			u.merge(roomID, fetched)
		},
	})
	if res.Superseded {
		return ChatRoomView{RoomID: roomID, Superseded: true}
	}
	return ChatRoomView{RoomID: roomID, Messages: u.Messages(), UsedFallback: res.UsedFallback}
}

func (u *ChatRoomUseCase) merge(roomID string, fetched []entity.ChatMessage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	next := make([]entity.ChatMessage, 0, len(fetched))
	for _, m := range fetched {
		if m.RoomID == "" {
			m.RoomID = roomID
		}
		next = append(next, m)
	}
	if u.roomID == roomID {
		next = append(next, unsynced(u.messages, next)...)
	}
	u.roomID = roomID
	u.messages = next
}

// unsynced returns the local messages still missing from fetched. Each
// fetched message stands in for at most one local one.
func unsynced(local, fetched []entity.ChatMessage) []entity.ChatMessage {
	used := make([]bool, len(fetched))
	var out []entity.ChatMessage
	for _, m := range local {
		if !m.IsTemporary() || m.SendStatus == entity.SendSent {
			continue
		}
		if i := serverCopy(m, fetched, used); i >= 0 {
			used[i] = true
			continue
		}
		out = append(out, m)
	}
	return out
}

func serverCopy(m entity.ChatMessage, fetched []entity.ChatMessage, used []bool) int {
	for i, f := range fetched {
		if used[i] || f.IsTemporary() || !f.IsMine() || f.Type != m.Type || f.Content() != m.Content() {
			continue
		}
		if !f.CreatedAt.IsZero() && f.CreatedAt.Before(m.CreatedAt.Add(-serverClockSkew)) {
			continue
		}
		return i
	}
	return -1
}

func (u *ChatRoomUseCase) Messages() []entity.ChatMessage {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]entity.ChatMessage, len(u.messages))
	copy(out, u.messages)
	return out
}

func (u *ChatRoomUseCase) Message(id string) (entity.ChatMessage, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, m := range u.messages {
		if m.ID == id {
			return m, true
		}
	}
	return entity.ChatMessage{}, false
}

func (u *ChatRoomUseCase) SendText(ctx context.Context, text string) (entity.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entity.ChatMessage{}, errors.BadRequest("message is empty", nil)
	}
	return u.send(ctx, entity.ChatMessage{Type: entity.MessageText, Text: text})
}

// SendMedia sends an image or video by reference.
func (u *ChatRoomUseCase) SendMedia(ctx context.Context, kind entity.MessageType, url string) (entity.ChatMessage, error) {
	if kind != entity.MessageImage && kind != entity.MessageVideo {
		return entity.ChatMessage{}, errors.BadRequest(fmt.Sprintf("unsupported media type %q", kind), nil)
	}
	if strings.TrimSpace(url) == "" {
		return entity.ChatMessage{}, errors.BadRequest("media url is empty", nil)
	}
	return u.send(ctx, entity.ChatMessage{Type: kind, Media: &entity.Media{URL: url}})
}

func (u *ChatRoomUseCase) send(ctx context.Context, msg entity.ChatMessage) (entity.ChatMessage, error) {
	u.mu.Lock()
	roomID := u.roomID
	u.mu.Unlock()
	if roomID == "" {
		return entity.ChatMessage{}, errors.BadRequest("no chat room open", nil)
	}

	msg.ID = entity.TempIDPrefix + uuid.NewString()
	msg.RoomID = roomID
	msg.SenderID = entity.SelfSenderID
	msg.CreatedAt = u.now()
	msg.SendStatus = entity.SendSending

	err := u.commit(ctx, msg, func() {
		u.mu.Lock()
		u.messages = append(u.messages, msg)
		u.mu.Unlock()
	})
	out, _ := u.Message(msg.ID)
	return out, err
}

// Retry re-sends a failed message. It is only ever triggered by the user.
func (u *ChatRoomUseCase) Retry(ctx context.Context, id string) (entity.ChatMessage, error) {
	msg, ok := u.Message(id)
	if !ok {
		return entity.ChatMessage{}, errors.NotFound("message", nil)
	}
	if msg.SendStatus != entity.SendFailed {
		return msg, errors.Conflict("only failed messages can be retried")
	}

	err := u.commit(ctx, msg, func() {
		u.setStatus(id, entity.SendSending)
	})
	out, _ := u.Message(id)
	return out, err
}

func (u *ChatRoomUseCase) commit(ctx context.Context, msg entity.ChatMessage, apply func()) error {
	err := u.mutator.Mutate(ctx, msg.ID, optimistic.Change{
		Apply: apply,
		Commit: func(ctx context.Context) error {
			_, err := u.api.SendMessage(ctx, msg.RoomID, string(msg.Type), msg.Content())
			return err
		},
		Confirm: func() {
			u.setStatus(msg.ID, entity.SendSent)
		},
		Rollback: func(error) {
			u.setStatus(msg.ID, entity.SendFailed)
			u.notifier.Notify(NoticeSendFailed)
		},
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (u *ChatRoomUseCase) setStatus(id string, status entity.SendStatus) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.messages {
		if u.messages[i].ID == id {
			u.messages[i].SendStatus = status
			return
		}
	}
}

// Timeline interleaves a divider ("2006-01-02" in loc) before the first
// message of each day.
func (u *ChatRoomUseCase) Timeline(loc *time.Location) []TimelineEntry {
	if loc == nil {
		loc = time.Local
	}
	msgs := u.Messages()
	out := make([]TimelineEntry, 0, len(msgs)+1)
	last := ""
	for i := range msgs {
		day := ""
		if !msgs[i].CreatedAt.IsZero() {
			day = msgs[i].CreatedAt.In(loc).Format("2006-01-02")
		}
		if day != "" && day != last {
			out = append(out, TimelineEntry{Divider: day})
			last = day
		}
		out = append(out, TimelineEntry{Message: &msgs[i]})
	}
	return out
}
