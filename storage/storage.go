package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
	"github.com/upbhushan/placement-iiitn--sub001/storage/database"
	inmemdb "github.com/upbhushan/placement-iiitn--sub001/storage/database/inmem"
	mongorepos "github.com/upbhushan/placement-iiitn--sub001/storage/database/mongo"
	sqlxrepos "github.com/upbhushan/placement-iiitn--sub001/storage/database/sqlx"
)

// Engines
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineMongoDB  = "mongodb"
)

// Repositories groups the repositories of one storage engine.
type Repositories struct {
	Users    user.Repository
	Profiles profile.Repository
	Forms    form.Repository

	// SQL is set for the postgres engine only.
	SQL   *sql.DB
	close func(ctx context.Context) error
}

func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects the engine selected by `database.engine`.
// The postgres engine creates the database when missing and applies pending migrations when `migrate` is set.
func Open(ctx context.Context, conf *core.Config, migrate bool) (*Repositories, error) {
	switch conf.Database.Engine {
	case "", EngineMemory:
		db := inmemdb.Open()
		return &Repositories{
			Users:    inmemdb.NewUserRepository(db),
			Profiles: inmemdb.NewProfileRepository(db),
			Forms:    inmemdb.NewFormRepository(db),
		}, nil

	case EnginePostgres:
		if migrate {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := database.Migrate(ctx, db.DB); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &Repositories{
			Users:    sqlxrepos.NewUserRepository(db),
			Profiles: sqlxrepos.NewProfileRepository(db),
			Forms:    sqlxrepos.NewFormRepository(db),
			SQL:      db.DB,
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case EngineMongoDB:
		db, err := mongorepos.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Users:    mongorepos.NewUserRepository(db),
			Profiles: mongorepos.NewProfileRepository(db),
			Forms:    mongorepos.NewFormRepository(db),
			close:    func(ctx context.Context) error { return mongorepos.Close(ctx, db) },
		}, nil
	}
	return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}
