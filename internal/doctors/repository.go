package doctors

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor storage
type Repository interface {
	Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*Doctor, error)
	List(ctx context.Context, filter ListFilter) ([]*Doctor, error)
	Featured(ctx context.Context, limit int) ([]*Doctor, error)
	Specializations(ctx context.Context) ([]string, error)
}

// NameResolver supplies display names for the in-memory repository, which has
// no join to lean on.
type NameResolver func(ctx context.Context, userID string) (fullName, username string)

// InMemoryRepository is a Repository backed by process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
	order   []string
	resolve NameResolver
}

// NewInMemoryRepository creates a new in-memory repository. resolve may be
// nil, in which case display names stay blank.
func NewInMemoryRepository(resolve NameResolver) *InMemoryRepository {
	return &InMemoryRepository{
		doctors: make(map[string]*Doctor),
		resolve: resolve,
	}
}

// Create stores a new doctor profile.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if d.UserID == req.UserID {
			return nil, ErrProfileExists
		}
	}

	doc := &Doctor{
		ID:                   uuid.New().String(),
		UserID:               req.UserID,
		Specialization:       req.Specialization,
		Qualifications:       req.Qualifications,
		YearsOfExperience:    req.YearsOfExperience,
		ConsultationFeeCents: req.ConsultationFeeCents,
		AvailableDays:        req.AvailableDays,
		AvailableTimeSlots:   req.AvailableTimeSlots,
		AboutText:            req.AboutText,
	}
	if r.resolve != nil {
		doc.FullName, doc.Username = r.resolve(ctx, req.UserID)
	}
	r.doctors[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	out := *doc
	return &out, nil
}

// GetByID retrieves a doctor by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	out := *doc
	return &out, nil
}

// GetByUserID retrieves the doctor profile owned by a user.
func (r *InMemoryRepository) GetByUserID(ctx context.Context, userID string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.UserID == userID {
			out := *d
			return &out, nil
		}
	}
	return nil, ErrDoctorNotFound
}

// List returns doctors matching the filter in insertion order.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Doctor, 0, len(r.order))
	for _, id := range r.order {
		d := r.doctors[id]
		if filter.Specialization != "" && d.Specialization != filter.Specialization {
			continue
		}
		if filter.Search != "" && !matchesSearch(d, filter.Search) {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	return out, nil
}

// Featured returns the first limit doctors for the home page.
func (r *InMemoryRepository) Featured(ctx context.Context, limit int) ([]*Doctor, error) {
	all, err := r.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Specializations returns the distinct specializations, sorted.
func (r *InMemoryRepository) Specializations(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, d := range r.doctors {
		if d.Specialization != "" && !seen[d.Specialization] {
			seen[d.Specialization] = true
			out = append(out, d.Specialization)
		}
	}
	sort.Strings(out)
	return out, nil
}

func matchesSearch(d *Doctor, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(d.FullName), q) ||
		strings.Contains(strings.ToLower(d.Username), q) ||
		strings.Contains(strings.ToLower(d.Specialization), q)
}
