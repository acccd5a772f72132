package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type userRepository struct{}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, exec core.DBExecutor, username, email string, excludedUsers ...user.User) error {
	q := `SELECT username, email FROM "user" WHERE (username = ? OR email = ?)`
	args := []interface{}{username, email}
	if len(excludedUsers) > 0 {
		ids := make([]int, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		var err error
		if q, args, err = sqlx.In(q+" AND id NOT IN (?)", username, email, ids); err != nil {
			return errors.Wrap(err, "expanding query")
		}
	}
	q = sqlx.Rebind(sqlx.DOLLAR, q)

	rows, err := exec.QueryContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var uname, mail string
		if err = rows.Scan(&uname, &mail); err != nil {
			return errors.Wrap(err, "checking uniqueness")
		}
		if uname == username {
			return user.ErrUsernameExists
		}
		if mail == email {
			return user.ErrEmailExists
		}
	}
	return errors.Wrap(rows.Err(), "checking uniqueness")
}

func (repo userRepository) CreateUser(ctx context.Context, exec core.DBExecutor, usr user.User) (user.User, error) {
	q := `
INSERT INTO "user" (name, username, email, bio, role, is_active, password_hash, created_at, updated_at, last_login)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	err := exec.QueryRowContext(
		ctx, q,
		usr.Name, usr.Username, usr.Email, usr.Bio, usr.Role, usr.IsActive,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	).Scan(&usr.ID)
	return usr, errors.Wrap(err, "creating user")
}

const userColumns = `id, name, username, email, bio, role, is_active, password_hash, created_at, updated_at, last_login`

func (repo userRepository) QueryAllUsers(ctx context.Context, exec core.DBExecutor) ([]user.User, error) {
	var users []user.User
	err := queryAll(ctx, exec, &users, `SELECT `+userColumns+` FROM "user" ORDER BY id`)
	return users, err
}

func (repo userRepository) getUser(ctx context.Context, exec core.DBExecutor, where string, args ...interface{}) (user.User, error) {
	var users []user.User
	if err := queryAll(ctx, exec, &users, `SELECT `+userColumns+` FROM "user" WHERE `+where+` LIMIT 1`, args...); err != nil {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return users[0], nil
}

func (repo userRepository) GetUserByID(ctx context.Context, exec core.DBExecutor, id int) (user.User, error) {
	return repo.getUser(ctx, exec, "id = $1", id)
}

func (repo userRepository) GetUserByUsername(ctx context.Context, exec core.DBExecutor, username string) (user.User, error) {
	return repo.getUser(ctx, exec, "username = $1", username)
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, exec core.DBExecutor, username string) (user.User, error) {
	return repo.getUser(ctx, exec, "(username = $1 OR email = $1)", username)
}

func (repo userRepository) UpdateUser(ctx context.Context, exec core.DBExecutor, usr user.User, isActive *bool) (user.User, error) {
	set := `name = $2, username = $3, email = $4, bio = $5, role = $6, password_hash = $7, updated_at = $8, last_login = $9`
	args := []interface{}{
		usr.ID, usr.Name, usr.Username, usr.Email, usr.Bio, usr.Role,
		usr.PasswordHash, usr.UpdatedAt, usr.LastLogin,
	}
	if isActive != nil {
		set += `, is_active = $10`
		args = append(args, *isActive)
		usr.IsActive = *isActive
	}
	res, err := exec.ExecContext(ctx, `UPDATE "user" SET `+set+` WHERE id = $1`, args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
