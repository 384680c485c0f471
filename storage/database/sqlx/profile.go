package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
)

// profiles are stored whole in a JSONB document
type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func decodeProfiles(docs [][]byte) ([]profile.Profile, error) {
	profs := make([]profile.Profile, 0, len(docs))
	for _, doc := range docs {
		var p profile.Profile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, errors.Wrap(err, "decoding profile")
		}
		profs = append(profs, p)
	}
	return profs, nil
}

func (repo *profileRepository) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	var doc []byte
	if err := repo.db.GetContext(ctx, &doc, `SELECT data FROM profiles WHERE user_id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "selecting profile")
	}
	profs, err := decodeProfiles([][]byte{doc})
	if err != nil {
		return profile.Profile{}, err
	}
	return profs[0], nil
}

func (repo *profileRepository) GetProfiles(ctx context.Context, userIDs ...string) ([]profile.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var docs [][]byte
	if err := repo.db.SelectContext(ctx, &docs, `SELECT data FROM profiles WHERE user_id::text = ANY($1)`, pq.Array(userIDs)); err != nil {
		return nil, errors.Wrap(err, "selecting profiles")
	}
	return decodeProfiles(docs)
}

func (repo *profileRepository) SaveProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "encoding profile")
	}
	q := `INSERT INTO profiles (user_id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, q, p.UserID, doc, p.UpdatedAt); err != nil {
		return profile.Profile{}, errors.Wrap(err, "saving profile")
	}
	return p, nil
}

func (repo *profileRepository) DeleteProfiles(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id::text = ANY($1)`, pq.Array(userIDs)); err != nil {
		return errors.Wrap(err, "deleting profiles")
	}
	return nil
}
