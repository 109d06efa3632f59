package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"mendizabala/dual/internal/model"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case CSV, JSON:
		return Format(value), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", value)
	}
}

var (
	teacherHeader = []string{"id", "name", "email", "substitute_name", "created_at", "updated_at"}
	companyHeader = []string{
		"id", "name", "location", "contact_person", "email", "phone", "website",
		"assigned_teacher_id", "status", "demand_dual1", "demand_dual_general",
		"demand_dual_intensive", "created_at", "updated_at",
	}
)

type teacherRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	SubstituteName *string `json:"substitute_name"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type companyRecord struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Location            *string `json:"location"`
	ContactPerson       *string `json:"contact_person"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Website             *string `json:"website"`
	AssignedTeacherID   *string `json:"assigned_teacher_id"`
	Status              string  `json:"status"`
	DemandDual1         int32   `json:"demand_dual1"`
	DemandDualGeneral   int32   `json:"demand_dual_general"`
	DemandDualIntensive int32   `json:"demand_dual_intensive"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

func Teachers(w io.Writer, format Format, teachers []model.Teacher) error {
	records := make([]teacherRecord, 0, len(teachers))
	for _, t := range teachers {
		records = append(records, teacherRecord{
			ID:             t.ID,
			Name:           t.Name,
			Email:          t.Email,
			SubstituteName: t.SubstituteName,
			CreatedAt:      timestamp(t.CreatedAt),
			UpdatedAt:      timestamp(t.UpdatedAt),
		})
	}
	if format == JSON {
		return writeJSON(w, records)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.ID, r.Name, r.Email, deref(r.SubstituteName), r.CreatedAt, r.UpdatedAt})
	}
	return writeCSV(w, teacherHeader, rows)
}

func Companies(w io.Writer, format Format, companies []model.Company) error {
	records := make([]companyRecord, 0, len(companies))
	for _, c := range companies {
		records = append(records, companyRecord{
			ID:                  c.ID,
			Name:                c.Name,
			Location:            c.Location,
			ContactPerson:       c.ContactPerson,
			Email:               c.Email,
			Phone:               c.Phone,
			Website:             c.Website,
			AssignedTeacherID:   c.AssignedTeacherID,
			Status:              string(c.Status),
			DemandDual1:         c.DemandDual1,
			DemandDualGeneral:   c.DemandDualGeneral,
			DemandDualIntensive: c.DemandDualIntensive,
			CreatedAt:           timestamp(c.CreatedAt),
			UpdatedAt:           timestamp(c.UpdatedAt),
		})
	}
	if format == JSON {
		return writeJSON(w, records)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID, r.Name, deref(r.Location), deref(r.ContactPerson), deref(r.Email),
			deref(r.Phone), deref(r.Website), deref(r.AssignedTeacherID), r.Status,
			itoa(r.DemandDual1), itoa(r.DemandDualGeneral), itoa(r.DemandDualIntensive),
			r.CreatedAt, r.UpdatedAt,
		})
	}
	return writeCSV(w, companyHeader, rows)
}

// writeCSV emits nothing for an empty row set, matching the browser export.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(n int32) string {
	return strconv.FormatInt(int64(n), 10)
}
