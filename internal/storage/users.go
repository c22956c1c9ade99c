package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Группы пользователя собираются одной строкой, чтобы не делать отдельный запрос на каждого.
const userColumns = `u.id, u.email, u.password_hash, u.phone, u.city, u.avatar, u.is_active, u.created_at,
	COALESCE((SELECT string_agg(g.name, ',' ORDER BY g.name)
	          FROM user_groups ug JOIN groups g ON g.id = ug.group_id
	          WHERE ug.user_id = u.id), '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u      models.User
		groups string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Phone, &u.City, &u.Avatar,
		&u.IsActive, &u.CreatedAt, &groups); err != nil {
		return nil, err
	}
	u.Groups = []string{}
	if groups != "" {
		u.Groups = strings.Split(groups, ",")
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя. Email должен быть уникален.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO users (email, password_hash, phone, city, avatar, is_active)
			  VALUES ($1, $2, $3, $4, $5, TRUE)
			  RETURNING id, is_active, created_at`
	created := *user
	err := s.DB.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Phone, user.City, user.Avatar).
		Scan(&created.ID, &created.IsActive, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	created.Groups = []string{}
	return &created, nil
}

// GetUserByID возвращает пользователя вместе с его группами.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "user not found"))
	}
	return u, nil
}

// GetUserByEmail ищет пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ListUsers возвращает пользователей по возрастанию id.
func (s *Storage) ListUsers(ctx context.Context, params models.ListParams) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := applyPage(psql.Select(userColumns).From("users u").OrderBy("u.id"),
		params.Limit, params.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser перезаписывает email, хэш пароля и профиль пользователя.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users
			  SET email = $1, password_hash = $2, phone = $3, city = $4, avatar = $5
			  WHERE id = $6`,
		user.Email, user.PasswordHash, user.Phone, user.City, user.Avatar, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if n == 0 {
		return nil, fmt.Errorf("%s: %w", op, apperrors.NotFound("user not found"))
	}
	return s.GetUserByID(ctx, user.ID)
}

// DeleteUser удаляет пользователя; курсы, уроки, подписки и платежи удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("user not found"))
	}
	return nil
}

// CreateGroup создаёт группу name. created=false, если группа уже существовала.
func (s *Storage) CreateGroup(ctx context.Context, name string) (bool, error) {
	const op = "storage.CreateGroup"

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO groups (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// AddUserToGroup добавляет пользователя в группу. Повторное добавление ничего не меняет.
func (s *Storage) AddUserToGroup(ctx context.Context, userID int64, group string) error {
	const op = "storage.AddUserToGroup"

	var groupID int64
	err := s.DB.QueryRowContext(ctx, `SELECT id FROM groups WHERE name = $1`, group).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("group not found"))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.DB.ExecContext(ctx, `INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`, userID, groupID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}
