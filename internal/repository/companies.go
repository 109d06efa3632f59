package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"mendizabala/dual/internal/model"
)

const companyColumns = `id::text, name, location, contact_person, email, phone, website,
    assigned_teacher_id::text, status, demand_dual1, demand_dual_general, demand_dual_intensive,
    created_at, updated_at`

// CompanyUpdate is a partial patch over a company row. Absent fields are left
// untouched; an explicit null clears a nullable column.
type CompanyUpdate struct {
	Name                *string
	Location            model.Field[string]
	ContactPerson       model.Field[string]
	Email               model.Field[string]
	Phone               model.Field[string]
	Website             model.Field[string]
	AssignedTeacherID   model.Field[string]
	Status              *model.Status
	DemandDual1         *int32
	DemandDualGeneral   *int32
	DemandDualIntensive *int32
}

func scanCompany(row pgx.Row) (model.Company, error) {
	var company model.Company
	var status string
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Location,
		&company.ContactPerson,
		&company.Email,
		&company.Phone,
		&company.Website,
		&company.AssignedTeacherID,
		&status,
		&company.DemandDual1,
		&company.DemandDualGeneral,
		&company.DemandDualIntensive,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	company.Status = model.Status(status)
	return company, err
}

// CompanyFilter narrows ListCompanies. Empty fields match everything.
type CompanyFilter struct {
	Query     string
	TeacherID string
	Status    model.Status
}

func (s *Store) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error) {
	rows, err := s.pool.Query(ctx, `
    SELECT `+companyColumns+`
    FROM companies
    WHERE ($1 = '' OR name ILIKE $1 OR COALESCE(location, '') ILIKE $1 OR COALESCE(contact_person, '') ILIKE $1
           OR COALESCE(email, '') ILIKE $1 OR COALESCE(website, '') ILIKE $1)
      AND ($2 = '' OR assigned_teacher_id::text = $2)
      AND ($3 = '' OR status = $3)
    ORDER BY name, id
  `, likePattern(filter.Query), filter.TeacherID, string(filter.Status))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	companies := make([]model.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (model.Company, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, companyID)
	company, err := scanCompany(row)
	return company, translate(err)
}

func (s *Store) CreateCompany(ctx context.Context, company model.Company) (model.Company, error) {
	row := s.pool.QueryRow(ctx, `
    INSERT INTO companies (
      id, name, location, contact_person, email, phone, website,
      assigned_teacher_id, status, demand_dual1, demand_dual_general, demand_dual_intensive,
      created_at, updated_at
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    RETURNING `+companyColumns,
		company.ID,
		company.Name,
		company.Location,
		company.ContactPerson,
		company.Email,
		company.Phone,
		company.Website,
		company.AssignedTeacherID,
		string(company.Status),
		company.DemandDual1,
		company.DemandDualGeneral,
		company.DemandDualIntensive,
		company.CreatedAt,
		company.UpdatedAt,
	)
	created, err := scanCompany(row)
	return created, translate(err)
}

func (s *Store) UpdateCompany(ctx context.Context, companyID string, update CompanyUpdate) (model.Company, error) {
	set := &setClause{}
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	nullable := []struct {
		column string
		field  model.Field[string]
	}{
		{"location", update.Location},
		{"contact_person", update.ContactPerson},
		{"email", update.Email},
		{"phone", update.Phone},
		{"website", update.Website},
		{"assigned_teacher_id", update.AssignedTeacherID},
	}
	for _, f := range nullable {
		if f.field.Present {
			set.add(f.column, f.field.Ptr())
		}
	}
	if update.Status != nil {
		set.add("status", string(*update.Status))
	}
	if update.DemandDual1 != nil {
		set.add("demand_dual1", *update.DemandDual1)
	}
	if update.DemandDualGeneral != nil {
		set.add("demand_dual_general", *update.DemandDualGeneral)
	}
	if update.DemandDualIntensive != nil {
		set.add("demand_dual_intensive", *update.DemandDualIntensive)
	}
	if set.empty() {
		return s.GetCompany(ctx, companyID)
	}

	query := `
    UPDATE companies
    SET ` + set.sql() + `, updated_at = NOW()
    WHERE id = ` + set.bind(companyID) + `
    RETURNING ` + companyColumns
	row := s.pool.QueryRow(ctx, query, set.args...)
	company, err := scanCompany(row)
	return company, translate(err)
}

// SetAssignedTeacher moves a company to a teacher's column, or back to the
// unassigned pool when teacherID is nil.
func (s *Store) SetAssignedTeacher(ctx context.Context, companyID string, teacherID *string) (model.Company, error) {
	return s.UpdateCompany(ctx, companyID, CompanyUpdate{AssignedTeacherID: model.FieldFromPtr(teacherID)})
}

func (s *Store) DeleteCompany(ctx context.Context, companyID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
