package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] over db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts the account and returns it with UserID and CreatedAt
// filled in. A duplicate login yields [ErrLoginAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert(user.TableName()).
		Columns("login", "password_hash").
		Values(user.Login, user.PasswordHash).
		Suffix("RETURNING user_id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrLoginAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan saved user from db
	if err := row.Scan(&user.UserID, &user.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	user.Password = ""
	return user, nil
}

// FindUserByLogin returns the account with the given login or
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("user_id", "login", "password_hash", "created_at").
		From(models.User{}.TableName()).
		Where(sq.Eq{"login": login}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var foundUser models.User
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&foundUser.UserID, &foundUser.Login, &foundUser.PasswordHash, &foundUser.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	case err != nil:
		log.Err(err).Str("func", "*userRepository.FindUserByLogin").Msg("error selecting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return foundUser, nil
}
