package board

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mendizabala/dual/internal/client"
	"mendizabala/dual/internal/model"
)

// Column is one lane of the kanban. The pool column has a nil Teacher.
type Column struct {
	Teacher   *model.Teacher
	Title     string
	Companies []model.Company
}

func (c Column) Pool() bool {
	return c.Teacher == nil
}

// Snapshot is a rendered board: the unassigned pool followed by one column
// per teacher in display-name order.
type Snapshot struct {
	Pool    Column
	Columns []Column
}

// Build groups companies by assigned teacher. Companies pointing at an
// unknown teacher land in the pool.
func Build(teachers []model.Teacher, companies []model.Company) Snapshot {
	byTeacher := make(map[string]int, len(teachers))
	columns := make([]Column, 0, len(teachers))

	sorted := append([]model.Teacher(nil), teachers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].DisplayName()) < strings.ToLower(sorted[j].DisplayName())
	})
	for i := range sorted {
		teacher := sorted[i]
		byTeacher[teacher.ID] = len(columns)
		columns = append(columns, Column{Teacher: &teacher, Title: teacher.DisplayName()})
	}

	pool := Column{}
	for _, company := range companies {
		if company.AssignedTeacherID != nil {
			if idx, ok := byTeacher[*company.AssignedTeacherID]; ok {
				columns[idx].Companies = append(columns[idx].Companies, company)
				continue
			}
		}
		pool.Companies = append(pool.Companies, company)
	}
	return Snapshot{Pool: pool, Columns: columns}
}

// Find reports the column currently holding companyID.
func (s Snapshot) Find(companyID string) (Column, bool) {
	for _, company := range s.Pool.Companies {
		if company.ID == companyID {
			return s.Pool, true
		}
	}
	for _, column := range s.Columns {
		for _, company := range column.Companies {
			if company.ID == companyID {
				return column, true
			}
		}
	}
	return Column{}, false
}

// TotalDemand sums the three dual demand counters of a column.
func (c Column) TotalDemand() int32 {
	var total int32
	for _, company := range c.Companies {
		total += company.DemandDual1 + company.DemandDualGeneral + company.DemandDualIntensive
	}
	return total
}

type Source interface {
	ListTeachers(ctx context.Context, query string) ([]model.Teacher, error)
	ListCompanies(ctx context.Context, filter client.CompanyFilter) ([]model.Company, error)
	AssignCompany(ctx context.Context, companyID string, teacherID *string) (model.Company, error)
}

// Board loads snapshots from the API.
type Board struct {
	source Source
}

func New(source Source) *Board {
	return &Board{source: source}
}

func (b *Board) Load(ctx context.Context) (Snapshot, error) {
	teachers, err := b.source.ListTeachers(ctx, "")
	if err != nil {
		return Snapshot{}, fmt.Errorf("load teachers: %w", err)
	}
	companies, err := b.source.ListCompanies(ctx, client.CompanyFilter{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("load companies: %w", err)
	}
	return Build(teachers, companies), nil
}

// Move assigns companyID to teacherID (nil for the pool) and returns the
// refetched board. On failure nothing local has changed.
func (b *Board) Move(ctx context.Context, companyID string, teacherID *string) (Snapshot, error) {
	if _, err := b.source.AssignCompany(ctx, companyID, teacherID); err != nil {
		return Snapshot{}, err
	}
	return b.Load(ctx)
}
