package profile

import (
	"context"
	"time"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

var ErrNotFound = core.NewNotFoundError("profile not found")

type (
	Repository interface {
		GetProfile(ctx context.Context, userID string) (Profile, error)
		GetProfiles(ctx context.Context, userIDs ...string) ([]Profile, error)
		// SaveProfile inserts or replaces the Profile keyed by UserID.
		SaveProfile(ctx context.Context, p Profile) (Profile, error)
		DeleteProfiles(ctx context.Context, userIDs ...string) error
	}

	// Lookup is the read side forms depend on.
	Lookup interface {
		Get(ctx context.Context, userID string) (Profile, error)
		GetMany(ctx context.Context, userIDs ...string) (map[string]Profile, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfile(ctx, userID)
}

// GetMany returns the Profiles found among `userIDs`, keyed by user ID.
func (svc *Service) GetMany(ctx context.Context, userIDs ...string) (map[string]Profile, error) {
	profs := make(map[string]Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profs, nil
	}
	list, err := svc.repo.GetProfiles(ctx, userIDs...)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		profs[p.UserID] = p
	}
	return profs, nil
}

// Save creates the user's Profile on first call and replaces it afterwards.
func (svc *Service) Save(ctx context.Context, userID string, up UpdateProfile) (Profile, error) {
	p, err := svc.repo.GetProfile(ctx, userID)
	if err != nil && !core.IsNotFound(err) {
		return Profile{}, err
	}
	p.UserID = userID
	up.apply(&p)
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveProfile(ctx, p)
}

func (svc *Service) Delete(ctx context.Context, userIDs ...string) error {
	return svc.repo.DeleteProfiles(ctx, userIDs...)
}
