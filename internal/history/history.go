package history

import "context"

// Line is one receipt line, frozen at sale time.
type Line struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal is quantity times the price captured at scan time.
func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Record is the immutable snapshot of one completed sale. The JSON field
// names (id, time, items, total, cash, change) are a compatibility contract
// with receipt logs written by earlier versions of the till; migrating a log
// in place depends on them.
type Record struct {
	ID     int64  `json:"id"` // unix milliseconds at sale completion
	Time   string `json:"time"`
	Lines  []Line `json:"items"`
	Total  int64  `json:"total"`
	Cash   int64  `json:"cash"`
	Change int64  `json:"change"`
}

//go:generate mockgen -source=history.go -destination=repository_mock.go -package=history
type Repository interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all receipts, oldest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Clear removes the entire receipt log at once. There is no selective
// deletion and no undo.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
