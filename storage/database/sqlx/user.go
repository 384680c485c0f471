package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

const userColumns = `id, name, username, email, is_active, roles, password_hash, created_at, updated_at, last_login`

var userOrderings = []string{"created_at", "name", "username", "email", "last_login"}

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (row userRow) user() user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		IsActive:     row.IsActive,
		Roles:        []string(row.Roles),
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time.UTC()
	}
	return usr
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	excl := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excl = append(excl, usr.ID)
	}

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	q := `SELECT username, email FROM users
		WHERE ((username = $1 AND $1 <> '') OR (email = $2 AND $2 <> ''))
		AND NOT (id = ANY($3::uuid[]))`
	if err := repo.db.SelectContext(ctx, &rows, q, username, email, pq.Array(excl)); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, row := range rows {
		if username != "" && row.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

// uniqueViolation maps unique index violations to the user errors.
func uniqueViolation(err error) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_username_key":
			return user.ErrUsernameExists
		case "users_email_key":
			return user.ErrEmailExists
		}
	}
	return err
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	q := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, append(pq.StringArray{}, usr.Roles...),
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, nullTime(usr.LastLogin),
	)
	if err != nil {
		return user.User{}, uniqueViolation(errors.Wrap(err, "inserting user"))
	}
	return usr, nil
}

func (repo *userRepository) getOne(ctx context.Context, where string, args ...interface{}) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	return repo.getOne(ctx, `id = $1`, id)
}

func (repo *userRepository) GetUsersByID(ctx context.Context, ids ...string) ([]user.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	return repo.selectUsers(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, pq.Array(valid))
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if email == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.getOne(ctx, `email = $1`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	if username == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.getOne(ctx, `username = $1 OR email = $1`, username)
}

func (repo *userRepository) selectUsers(ctx context.Context, q string, args ...interface{}) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if len(filter.Roles) > 0 {
		patterns := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			patterns = append(patterns, role+"%")
		}
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(roles) r WHERE r LIKE ANY(%s))", arg(pq.Array(patterns))))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, "created_at >= "+arg(filter.CreatedFrom))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, "created_at <= "+arg(filter.CreatedTo))
	}

	q := `SELECT ` + userColumns + ` FROM users`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY ` + orderBy(filter.Ordering, userOrderings, "created_at")
	return repo.selectUsers(ctx, q, args...)
}

// orderBy renders validated orderings, defaulting to `fallback` ascending.
func orderBy(raw string, allowed []string, fallback string) string {
	ords := core.ParseOrderings(raw, allowed...)
	if len(ords) == 0 {
		return core.DBOrdering{Field: fallback, Ascending: true}.String()
	}
	parts := make([]string, 0, len(ords))
	for _, ord := range ords {
		parts = append(parts, ord.String())
	}
	return strings.Join(parts, ", ")
}

func (repo *userRepository) SaveUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET name = $2, username = $3, email = $4, is_active = $5, roles = $6,
		password_hash = $7, updated_at = $8, last_login = $9 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, append(pq.StringArray{}, usr.Roles...),
		usr.PasswordHash, usr.UpdatedAt, nullTime(usr.LastLogin),
	)
	if err != nil {
		return user.User{}, uniqueViolation(errors.Wrap(err, "updating user"))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id::text = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
