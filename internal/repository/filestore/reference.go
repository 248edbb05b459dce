package filestore

import (
	"context"
	"sort"

	"hotgist/internal/models"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *user
	if existing, ok := r.s.users[user.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.s.users[user.ID] = &stored
	return r.s.persistUsers()
}

type campusRepository struct {
	s *Store
}

func (r *campusRepository) List(ctx context.Context) ([]models.Campus, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Campus, len(r.s.catalog))
	copy(out, r.s.catalog)
	return out, nil
}

func (r *campusRepository) Upsert(ctx context.Context, campuses []models.Campus) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}
	if len(campuses) == 0 {
		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byID := make(map[string]models.Campus, len(r.s.catalog)+len(campuses))
	for _, c := range r.s.catalog {
		byID[c.ID] = c
	}
	for _, c := range campuses {
		byID[c.ID] = c
	}
	merged := make([]models.Campus, 0, len(byID))
	for _, c := range byID {
		merged = append(merged, c)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	r.s.catalog = merged

	return r.s.persistCatalog()
}
