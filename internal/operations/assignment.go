package operations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/repository"
)

type CompanyAssigner interface {
	SetAssignedTeacher(ctx context.Context, companyID string, teacherID *string) (model.Company, error)
}

// AssignCompany moves a company into a teacher's column. A nil or blank
// teacherID returns it to the unassigned pool.
func AssignCompany(ctx context.Context, store CompanyAssigner, companyID string, teacherID *string) (model.Company, error) {
	if strings.TrimSpace(companyID) == "" {
		return model.Company{}, fail(http.StatusNotFound, ErrCompanyNotFound)
	}
	if teacherID != nil {
		trimmed := strings.TrimSpace(*teacherID)
		if trimmed == "" {
			teacherID = nil
		} else if _, err := uuid.Parse(trimmed); err != nil {
			return model.Company{}, fail(http.StatusBadRequest, ErrUnknownTeacher)
		} else {
			teacherID = &trimmed
		}
	}

	company, err := store.SetAssignedTeacher(ctx, companyID, teacherID)
	switch {
	case err == nil:
		return company, nil
	case errors.Is(err, repository.ErrNotFound):
		return model.Company{}, fail(http.StatusNotFound, ErrCompanyNotFound)
	case errors.Is(err, repository.ErrInvalidReference):
		return model.Company{}, fail(http.StatusBadRequest, ErrUnknownTeacher)
	default:
		return model.Company{}, internal(err)
	}
}
