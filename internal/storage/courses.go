package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

const courseColumns = "c.id, c.title, c.description, c.preview, c.owner_id, c.created_at"

func scanCourse(row rowScanner) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Preview, &c.Owner, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCourse сохраняет курс с владельцем ownerID.
func (s *Storage) CreateCourse(ctx context.Context, ownerID int64, in models.CourseInput) (*models.Course, error) {
	const op = "storage.CreateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c := models.Course{Title: in.Title, Description: in.Description, Preview: in.Preview, Owner: ownerID}
	err := s.DB.QueryRowContext(ctx, `INSERT INTO courses (title, description, preview, owner_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`,
		c.Title, c.Description, c.Preview, c.Owner).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &c, nil
}

// GetCourse возвращает курс по id без ограничения по владельцу.
func (s *Storage) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.GetCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanCourse(s.DB.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "course not found"))
	}
	return c, nil
}

// GetCourseDetail дополняет курс уроками, их количеством и признаком подписки viewerID.
func (s *Storage) GetCourseDetail(ctx context.Context, id, viewerID int64) (*models.CourseDetail, error) {
	const op = "storage.GetCourseDetail"

	row := s.DB.QueryRowContext(ctx, `SELECT `+courseColumns+`,
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.course_id = c.id AND s.user_id = $2)
		FROM courses c WHERE c.id = $1`, id, viewerID)

	var d models.CourseDetail
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.Preview, &d.Owner, &d.CreatedAt, &d.IsSubscribed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "course not found"))
	}

	lessons, err := s.ListLessons(ctx, models.LessonFilter{CourseID: &d.ID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.Lessons = lessons
	d.LessonsCount = len(lessons)
	return &d, nil
}

// ListCourses возвращает курсы по возрастанию id. ownerID != nil ограничивает выборку курсами владельца.
func (s *Storage) ListCourses(ctx context.Context, ownerID *int64, params models.ListParams) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	b := psql.Select(courseColumns).From("courses c").OrderBy("c.id")
	if ownerID != nil {
		b = b.Where(sq.Eq{"c.owner_id": *ownerID})
	}
	query, args, err := applyPage(b, params.Limit, params.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCourse перезаписывает редактируемые поля курса. Владелец не меняется.
func (s *Storage) UpdateCourse(ctx context.Context, id int64, in models.CourseInput) (*models.Course, error) {
	const op = "storage.UpdateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanCourse(s.DB.QueryRowContext(ctx, `UPDATE courses c
			  SET title = $1, description = $2, preview = $3
			  WHERE c.id = $4
			  RETURNING `+courseColumns,
		in.Title, in.Description, in.Preview, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "course not found"))
	}
	return c, nil
}

// DeleteCourse удаляет курс вместе с уроками, подписками и платежами за него.
func (s *Storage) DeleteCourse(ctx context.Context, id int64) error {
	const op = "storage.DeleteCourse"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("course not found"))
	}
	return nil
}
