package product

// ServiceInterface is implemented by *Service and lets cart/order depend on
// the catalog without binding to the concrete type.
type ServiceInterface interface {
	ListAvailable() []Product
	ListAll() []Product
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, patch Patch, updatedAt string) (Product, error)
	Delete(id int) error
	DecrementStock(id int, qty int, updatedAt string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) ListAvailable() []Product {
	return s.repo.ListAvailable()
}

func (s *Service) ListAll() []Product {
	return s.repo.ListAll()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

func (s *Service) Update(id int, patch Patch, updatedAt string) (Product, error) {
	return s.repo.Update(id, patch, updatedAt)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) DecrementStock(id int, qty int, updatedAt string) error {
	return s.repo.DecrementStock(id, qty, updatedAt)
}
