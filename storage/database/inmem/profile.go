package inmemdb

import (
	"context"

	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
)

type profileRepository struct {
	db *profileTable
}

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) GetProfile(_ context.Context, userID string) (profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.table[userID]; ok {
		return *p, nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) GetProfiles(_ context.Context, userIDs ...string) ([]profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	profs := make([]profile.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := repo.db.table[id]; ok {
			profs = append(profs, *p)
		}
	}
	return profs, nil
}

func (repo *profileRepository) SaveProfile(_ context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[p.UserID] = &p
	return p, nil
}

func (repo *profileRepository) DeleteProfiles(_ context.Context, userIDs ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range userIDs {
		delete(repo.db.table, id)
	}
	return nil
}
