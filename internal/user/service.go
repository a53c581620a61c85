package user

import "golang.org/x/crypto/bcrypt"

// ServiceInterface lets other packages depend on the user service without
// binding to the concrete type.
type ServiceInterface interface {
	GetByID(id int) (User, error)
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}
