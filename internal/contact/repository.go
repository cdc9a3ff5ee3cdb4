package contact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for contact submission storage
type Repository interface {
	Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
}

// InMemoryRepository is a Repository backed by process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []*Submission
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create stores a new submission.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := &Submission{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	r.order = append(r.order, sub)
	out := *sub
	return &out, nil
}

// List returns submissions newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Submission, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		c := *r.order[i]
		out = append(out, &c)
	}
	return out, nil
}
