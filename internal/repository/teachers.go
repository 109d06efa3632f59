package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"mendizabala/dual/internal/model"
)

const teacherColumns = `id::text, name, email, substitute_name, created_at, updated_at`

// TeacherUpdate carries a partial patch. Nil pointers and absent fields keep
// the stored value; a null SubstituteName clears it.
type TeacherUpdate struct {
	Name           *string
	Email          *string
	SubstituteName model.Field[string]
}

func (u TeacherUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && !u.SubstituteName.Present
}

func scanTeacher(row pgx.Row) (model.Teacher, error) {
	var teacher model.Teacher
	err := row.Scan(&teacher.ID, &teacher.Name, &teacher.Email, &teacher.SubstituteName, &teacher.CreatedAt, &teacher.UpdatedAt)
	return teacher, err
}

func (s *Store) ListTeachers(ctx context.Context, query string) ([]model.Teacher, error) {
	rows, err := s.pool.Query(ctx, `
    SELECT `+teacherColumns+`
    FROM teachers
    WHERE $1 = ''
       OR name ILIKE $1
       OR email ILIKE $1
       OR COALESCE(substitute_name, '') ILIKE $1
    ORDER BY name, id
  `, likePattern(query))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	teachers := make([]model.Teacher, 0)
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

func (s *Store) GetTeacher(ctx context.Context, teacherID string) (model.Teacher, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, teacherID)
	teacher, err := scanTeacher(row)
	return teacher, translate(err)
}

func (s *Store) CreateTeacher(ctx context.Context, teacher model.Teacher) (model.Teacher, error) {
	row := s.pool.QueryRow(ctx, `
    INSERT INTO teachers (id, name, email, substitute_name, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+teacherColumns,
		teacher.ID, teacher.Name, teacher.Email, teacher.SubstituteName, teacher.CreatedAt, teacher.UpdatedAt)
	created, err := scanTeacher(row)
	return created, translate(err)
}

// FindOrCreateTeacherByEmail returns the teacher owning email, inserting
// candidate when none exists. The upsert keeps concurrent first logins from
// racing into a unique violation.
func (s *Store) FindOrCreateTeacherByEmail(ctx context.Context, candidate model.Teacher) (model.Teacher, bool, error) {
	row := s.pool.QueryRow(ctx, `
    INSERT INTO teachers (id, name, email, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
    RETURNING `+teacherColumns+`, (xmax = 0) AS inserted`,
		candidate.ID, candidate.Name, candidate.Email, candidate.CreatedAt, candidate.UpdatedAt)
	var teacher model.Teacher
	var inserted bool
	err := row.Scan(&teacher.ID, &teacher.Name, &teacher.Email, &teacher.SubstituteName, &teacher.CreatedAt, &teacher.UpdatedAt, &inserted)
	return teacher, inserted, translate(err)
}

func (s *Store) UpdateTeacher(ctx context.Context, teacherID string, update TeacherUpdate) (model.Teacher, error) {
	set := &setClause{}
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Email != nil {
		set.add("email", *update.Email)
	}
	if update.SubstituteName.Present {
		set.add("substitute_name", update.SubstituteName.Ptr())
	}
	if set.empty() {
		return s.GetTeacher(ctx, teacherID)
	}

	query := `
    UPDATE teachers
    SET ` + set.sql() + `, updated_at = NOW()
    WHERE id = ` + set.bind(teacherID) + `
    RETURNING ` + teacherColumns
	row := s.pool.QueryRow(ctx, query, set.args...)
	teacher, err := scanTeacher(row)
	return teacher, translate(err)
}

func (s *Store) DeleteTeacher(ctx context.Context, teacherID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, teacherID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
