package call

type ServiceInterface interface {
	Create(callerID, receiverID int64, callType string) (*Call, error)
	Update(id int64, upd Update) (*Call, error)
	UserCalls(userID int64) ([]*Call, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) Create(callerID, receiverID int64, callType string) (*Call, error) {
	c := &Call{
		CallerID:   callerID,
		ReceiverID: receiverID,
		Type:       callType,
		Status:     "missed", // until the receiver answers or declines
	}
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(id int64, upd Update) (*Call, error) {
	return s.Repo.Update(id, upd)
}

func (s *Service) UserCalls(userID int64) ([]*Call, error) {
	return s.Repo.UserCalls(userID)
}
