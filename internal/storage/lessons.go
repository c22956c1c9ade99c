package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

const lessonColumns = "l.id, l.course_id, l.title, l.description, l.preview, l.video_url, l.owner_id, l.created_at"

func scanLesson(row rowScanner) (*models.Lesson, error) {
	var l models.Lesson
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Preview, &l.VideoURL,
		&l.Owner, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLesson сохраняет урок с владельцем ownerID. Несуществующий курс даёт ErrValidation.
func (s *Storage) CreateLesson(ctx context.Context, ownerID int64, in models.LessonInput) (*models.Lesson, error) {
	const op = "storage.CreateLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	l := models.Lesson{
		CourseID:    in.CourseID,
		Title:       in.Title,
		Description: in.Description,
		Preview:     in.Preview,
		VideoURL:    in.VideoURL,
		Owner:       ownerID,
	}
	err := s.DB.QueryRowContext(ctx, `INSERT INTO lessons (course_id, title, description, preview, video_url, owner_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at`,
		l.CourseID, l.Title, l.Description, l.Preview, l.VideoURL, l.Owner).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &l, nil
}

// GetLesson возвращает урок по id без ограничения по владельцу.
func (s *Storage) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	l, err := scanLesson(s.DB.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "lesson not found"))
	}
	return l, nil
}

// ListLessons возвращает уроки по возрастанию id с учётом фильтра.
func (s *Storage) ListLessons(ctx context.Context, filter models.LessonFilter) ([]*models.Lesson, error) {
	const op = "storage.ListLessons"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	b := psql.Select(lessonColumns).From("lessons l").OrderBy("l.id")
	if filter.OwnerID != nil {
		b = b.Where(sq.Eq{"l.owner_id": *filter.OwnerID})
	}
	if filter.CourseID != nil {
		b = b.Where(sq.Eq{"l.course_id": *filter.CourseID})
	}
	query, args, err := applyPage(b, filter.Limit, filter.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateLesson перезаписывает редактируемые поля урока, включая курс.
func (s *Storage) UpdateLesson(ctx context.Context, id int64, in models.LessonInput) (*models.Lesson, error) {
	const op = "storage.UpdateLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	l, err := scanLesson(s.DB.QueryRowContext(ctx, `UPDATE lessons l
			  SET course_id = $1, title = $2, description = $3, preview = $4, video_url = $5
			  WHERE l.id = $6
			  RETURNING `+lessonColumns,
		in.CourseID, in.Title, in.Description, in.Preview, in.VideoURL, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "lesson not found"))
	}
	return l, nil
}

// DeleteLesson удаляет урок.
func (s *Storage) DeleteLesson(ctx context.Context, id int64) error {
	const op = "storage.DeleteLesson"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("lesson not found"))
	}
	return nil
}
