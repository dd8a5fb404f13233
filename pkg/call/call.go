package call

import (
	"time"

	"messengerclone/pkg/user"
)

type Call struct {
	ID         int64      `json:"id"`
	CallerID   int64      `json:"callerId"`
	ReceiverID int64      `json:"receiverId"`
	Type       string     `json:"type"`   // voice, video
	Status     string     `json:"status"` // missed, answered, declined
	Duration   int        `json:"duration"`
	CreatedAt  time.Time  `json:"createdAt"`
	Caller     *user.User `json:"caller,omitempty"`
	Receiver   *user.User `json:"receiver,omitempty"`
}

type Update struct {
	Status   *string `json:"status,omitempty"`
	Duration *int    `json:"duration,omitempty"`
}

type Repository interface {
	Create(call *Call) error
	Update(id int64, upd Update) (*Call, error)
	GetByID(id int64) (*Call, error)
	UserCalls(userID int64) ([]*Call, error)
}
