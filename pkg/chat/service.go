package chat

import (
	"errors"
	"sort"
	"time"

	"messengerclone/pkg/message"
)

var ErrForbidden = errors.New("access denied")

type ServiceInterface interface {
	Create(c *Chat, creatorID int64) (*Chat, error)
	Get(chatID, userID int64) (*Chat, error)
	UserChats(userID int64) ([]*Summary, error)
	AddMember(chatID, requesterID, userID int64, role string) (*Member, error)
	Membership(chatID, userID int64) (*Member, error)
	MemberIDs(chatID int64) ([]int64, error)
}

// MessageSource supplies per-chat message aggregates for the sidebar list.
type MessageSource interface {
	LastMessage(chatID int64) (*message.Message, error)
	UnreadCount(chatID, userID int64) (int, error)
}

type Service struct {
	Repo     Repository
	Messages MessageSource
}

func NewService(repo Repository, messages MessageSource) *Service {
	return &Service{Repo: repo, Messages: messages}
}

func (s *Service) Create(c *Chat, creatorID int64) (*Chat, error) {
	c.CreatedBy = creatorID
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}
	// the creator administers the chat they made
	if _, err := s.Repo.AddMember(c.ID, creatorID, "admin"); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(chatID, userID int64) (*Chat, error) {
	c, err := s.Repo.GetByID(chatID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.Membership(chatID, userID); err != nil {
		if errors.Is(err, ErrNoMembership) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) UserChats(userID int64) ([]*Summary, error) {
	chats, err := s.Repo.ChatsOf(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(chats))
	for _, c := range chats {
		sum := &Summary{Chat: *c}
		last, err := s.Messages.LastMessage(c.ID)
		switch {
		case err == nil:
			sum.LastMessage = last
		case !errors.Is(err, message.ErrNotFound):
			// an empty chat is normal, a store failure is not
			return nil, err
		}
		unread, err := s.Messages.UnreadCount(c.ID, userID)
		if err != nil {
			return nil, err
		}
		sum.UnreadCount = unread
		summaries = append(summaries, sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return recency(summaries[i]).After(recency(summaries[j]))
	})
	return summaries, nil
}

func recency(s *Summary) time.Time {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt
	}
	return s.CreatedAt
}

func (s *Service) AddMember(chatID, requesterID, userID int64, role string) (*Member, error) {
	requester, err := s.Repo.Membership(chatID, requesterID)
	if err != nil || requester.Role != "admin" {
		return nil, ErrForbidden
	}
	if role == "" {
		role = "member"
	}
	return s.Repo.AddMember(chatID, userID, role)
}

func (s *Service) Membership(chatID, userID int64) (*Member, error) {
	return s.Repo.Membership(chatID, userID)
}

// MemberIDs is the membership lookup the fanout engine runs on.
func (s *Service) MemberIDs(chatID int64) ([]int64, error) {
	members, err := s.Repo.Members(chatID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
