package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/server/models"
)

// MemoryRepository keeps users in process memory. The email index is updated
// under the same lock as the rows, so uniqueness holds under concurrent calls.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrConstraintViolation
	}
	if _, ok := r.byID[user.ID]; ok {
		return nil, common.ErrConstraintViolation
	}

	r.byID[user.ID] = cloneUser(user)
	r.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	stored := r.byID[id]
	u := cloneUser(&stored)
	return &u, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := cloneUser(&stored)
	return &u, nil
}

func (r *MemoryRepository) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return nil, common.ErrConstraintViolation
	}

	delete(r.byEmail, current.Email)
	updated := cloneUser(user)
	updated.CreatedAt = current.CreatedAt
	r.byID[user.ID] = updated
	r.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, current.Email)
	delete(r.byID, id)
	return nil
}

func cloneUser(u *models.User) models.User {
	c := *u
	if u.Name != nil {
		name := *u.Name
		c.Name = &name
	}
	return c
}
