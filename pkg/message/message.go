package message

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"messengerclone/pkg/user"
)

// Sender is the snapshot of the author embedded in each message document,
// so reads and fanout frames never need a second lookup.
type Sender struct {
	ID        int64  `json:"id" bson:"id"`
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Avatar    string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

type Message struct {
	MongoID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `json:"id" bson:"-"`
	ChatID      int64              `json:"chatId" bson:"chatId"`
	Sender      Sender             `json:"sender" bson:"sender"`
	Content     string             `json:"content" bson:"content"`
	MessageType string             `json:"messageType" bson:"messageType"`
	ReplyToID   string             `json:"replyToId,omitempty" bson:"replyToId,omitempty"`
	IsEdited    bool               `json:"isEdited" bson:"isEdited"`
	IsDeleted   bool               `json:"-" bson:"isDeleted"`
	ReadBy      []int64            `json:"readBy" bson:"readBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func SenderOf(u *user.User) Sender {
	return Sender{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

type Repository interface {
	Create(msg *Message) error
	GetByID(id string) (*Message, error)
	ChatMessages(chatID int64, limit, offset int) ([]*Message, error)
	MarkRead(id string, userID int64) error
	LastMessage(chatID int64) (*Message, error)
	UnreadCount(chatID, userID int64) (int, error)
	DeleteBySender(senderID int64) error
}
