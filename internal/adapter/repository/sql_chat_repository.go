package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"

	"github.com/jmoiron/sqlx"
)

type roomRow struct {
	ID             string `db:"id"`
	ProductID      string `db:"product_id"`
	SellerID       string `db:"seller_id"`
	BuyerID        string `db:"buyer_id"`
	SellerNickname string `db:"seller_nickname"`
	BuyerNickname  string `db:"buyer_nickname"`
	LastMessage    string `db:"last_message"`
	LastMessageAt  int64  `db:"last_message_at"`
	Unread         string `db:"unread"`
	CreatedAt      int64  `db:"created_at"`
}

type messageRow struct {
	ID        string `db:"id"`
	RoomID    string `db:"room_id"`
	SenderID  string `db:"sender_id"`
	Type      string `db:"type"`
	Content   string `db:"content"`
	CreatedAt int64  `db:"created_at"`
}

const roomColumns = `id, product_id, seller_id, buyer_id, seller_nickname, buyer_nickname,
	last_message, last_message_at, unread, created_at`

type sqlChatRepository struct {
	db *sqlx.DB
}

func NewSQLChatRepository(db *sqlx.DB) repository.ChatRepository {
	return &sqlChatRepository{db: db}
}

func (r *sqlChatRepository) Create(ctx context.Context, room *entity.ChatRoom) error {
	row, err := toRoomRow(room)
	if err != nil {
		return errors.Internal("Failed to create chat room", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Internal("Failed to create chat room", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, tx.Rebind(`SELECT 1 FROM chat_rooms WHERE id = ?`), room.ID)
	if err != nil {
		return errors.Internal("Failed to create chat room", err)
	}
	if found {
		return errors.Conflict("chat room " + room.ID + " already exists")
	}

	_, err = tx.NamedExecContext(ctx, `INSERT INTO chat_rooms (`+roomColumns+`) VALUES (
		:id, :product_id, :seller_id, :buyer_id, :seller_nickname, :buyer_nickname,
		:last_message, :last_message_at, :unread, :created_at)`, row)
	if err != nil {
		return errors.Internal("Failed to create chat room", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Internal("Failed to create chat room", err)
	}
	return nil
}

func (r *sqlChatRepository) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	return r.getOne(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE id = ?`, id)
}

func (r *sqlChatRepository) FindByProductAndBuyer(ctx context.Context, productID, buyerID string) (*entity.ChatRoom, error) {
	return r.getOne(ctx, `SELECT `+roomColumns+` FROM chat_rooms
		WHERE product_id = ? AND buyer_id = ? ORDER BY created_at LIMIT 1`, productID, buyerID)
}

func (r *sqlChatRepository) getOne(ctx context.Context, query string, args ...interface{}) (*entity.ChatRoom, error) {
	var row roomRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Chat room", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get chat room", err)
	}
	return row.toEntity()
}

// ListByUserID returns the user's rooms, most recent activity first.
func (r *sqlChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	var rows []roomRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT `+roomColumns+` FROM chat_rooms
		WHERE seller_id = ? OR buyer_id = ?
		ORDER BY last_message_at DESC, id ASC`), userID, userID)
	if err != nil {
		return nil, errors.Internal("Failed to list chat rooms", err)
	}

	out := make([]*entity.ChatRoom, 0, len(rows))
	for _, row := range rows {
		room, err := row.toEntity()
		if err != nil {
			return nil, errors.Internal("Failed to list chat rooms", err)
		}
		out = append(out, room)
	}
	return out, nil
}

func (r *sqlChatRepository) Update(ctx context.Context, room *entity.ChatRoom) error {
	row, err := toRoomRow(room)
	if err != nil {
		return errors.Internal("Failed to update chat room", err)
	}
	res, err := r.db.NamedExecContext(ctx, `UPDATE chat_rooms SET
		product_id = :product_id, seller_id = :seller_id, buyer_id = :buyer_id,
		seller_nickname = :seller_nickname, buyer_nickname = :buyer_nickname,
		last_message = :last_message, last_message_at = :last_message_at,
		unread = :unread, created_at = :created_at
		WHERE id = :id`, row)
	if err != nil {
		return errors.Internal("Failed to update chat room", err)
	}
	if ok, err := affected(res); err != nil {
		return errors.Internal("Failed to update chat room", err)
	} else if !ok {
		return errors.NotFound("Chat room", nil)
	}
	return nil
}

func (r *sqlChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	found, err := exists(ctx, r.db, r.db.Rebind(`SELECT 1 FROM chat_rooms WHERE id = ?`), message.RoomID)
	if err != nil {
		return errors.Internal("Failed to send message", err)
	}
	if !found {
		return errors.NotFound("Chat room", nil)
	}

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO chat_messages (id, room_id, sender_id, type, content, created_at)
		VALUES (:id, :room_id, :sender_id, :type, :content, :created_at)`, messageRow{
		ID:        message.ID,
		RoomID:    message.RoomID,
		SenderID:  message.SenderID,
		Type:      message.Type,
		Content:   message.Content,
		CreatedAt: toNanos(message.CreatedAt),
	})
	if err != nil {
		return errors.Internal("Failed to send message", err)
	}
	return nil
}

// GetMessagesByChat returns the history oldest first.
func (r *sqlChatRepository) GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	found, err := exists(ctx, r.db, r.db.Rebind(`SELECT 1 FROM chat_rooms WHERE id = ?`), chatID)
	if err != nil {
		return nil, errors.Internal("Failed to get messages", err)
	}
	if !found {
		return nil, errors.NotFound("Chat room", nil)
	}

	var rows []messageRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT id, room_id, sender_id, type, content, created_at
		FROM chat_messages WHERE room_id = ? ORDER BY created_at ASC, id ASC`), chatID)
	if err != nil {
		return nil, errors.Internal("Failed to get messages", err)
	}

	out := make([]*entity.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Message{
			ID:        row.ID,
			RoomID:    row.RoomID,
			SenderID:  row.SenderID,
			Type:      row.Type,
			Content:   row.Content,
			CreatedAt: fromNanos(row.CreatedAt),
		})
	}
	return out, nil
}

func toRoomRow(room *entity.ChatRoom) (roomRow, error) {
	unread := room.UnreadCount
	if unread == nil {
		unread = map[string]int{}
	}
	encoded, err := json.Marshal(unread)
	if err != nil {
		return roomRow{}, err
	}
	return roomRow{
		ID:             room.ID,
		ProductID:      room.ProductID,
		SellerID:       room.SellerID,
		BuyerID:        room.BuyerID,
		SellerNickname: room.SellerNickname,
		BuyerNickname:  room.BuyerNickname,
		LastMessage:    room.LastMessage,
		LastMessageAt:  toNanos(room.LastMessageAt),
		Unread:         string(encoded),
		CreatedAt:      toNanos(room.CreatedAt),
	}, nil
}

func (row roomRow) toEntity() (*entity.ChatRoom, error) {
	unread := make(map[string]int)
	if err := json.Unmarshal([]byte(row.Unread), &unread); err != nil {
		return nil, err
	}
	return &entity.ChatRoom{
		ID:             row.ID,
		ProductID:      row.ProductID,
		SellerID:       row.SellerID,
		BuyerID:        row.BuyerID,
		SellerNickname: row.SellerNickname,
		BuyerNickname:  row.BuyerNickname,
		LastMessage:    row.LastMessage,
		LastMessageAt:  fromNanos(row.LastMessageAt),
		UnreadCount:    unread,
		CreatedAt:      fromNanos(row.CreatedAt),
	}, nil
}
