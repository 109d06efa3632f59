package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mendizabala/dual/internal/client"
	"mendizabala/dual/internal/model"
)

func strPtr(s string) *string { return &s }

type fakeSource struct {
	mu        sync.Mutex
	teachers  []model.Teacher
	companies []model.Company
	assignErr error
	listErr   error
	loads     int
}

func (f *fakeSource) ListTeachers(context.Context, string) ([]model.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Teacher(nil), f.teachers...), nil
}

func (f *fakeSource) ListCompanies(context.Context, client.CompanyFilter) ([]model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Company(nil), f.companies...), nil
}

func (f *fakeSource) AssignCompany(_ context.Context, companyID string, teacherID *string) (model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return model.Company{}, f.assignErr
	}
	for i := range f.companies {
		if f.companies[i].ID == companyID {
			f.companies[i].AssignedTeacherID = teacherID
			return f.companies[i], nil
		}
	}
	return model.Company{}, &client.APIError{Status: 404, Code: "company_not_found"}
}

func (f *fakeSource) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func fixture() *fakeSource {
	return &fakeSource{
		teachers: []model.Teacher{
			{ID: "t-miren", Name: "Miren"},
			{ID: "t-ane", Name: "Ane", SubstituteName: strPtr("Zuriñe")},
			{ID: "t-jon", Name: "Jon", SubstituteName: strPtr("  ")},
		},
		companies: []model.Company{
			{ID: "c1", Name: "Acme", AssignedTeacherID: strPtr("t-miren"), DemandDual1: 2, DemandDualGeneral: 1},
			{ID: "c2", Name: "Beta"},
			{ID: "c3", Name: "Gamma", AssignedTeacherID: strPtr("t-gone")},
			{ID: "c4", Name: "Delta", AssignedTeacherID: strPtr("t-miren"), DemandDualIntensive: 3},
		},
	}
}

func TestBuildGroupsByTeacher(t *testing.T) {
	src := fixture()
	snap := Build(src.teachers, src.companies)

	require.Len(t, snap.Columns, 3)
	assert.Equal(t, []string{"Jon", "Miren", "Zuriñe"}, []string{snap.Columns[0].Title, snap.Columns[1].Title, snap.Columns[2].Title})
	assert.True(t, snap.Pool.Pool())
	assert.False(t, snap.Columns[0].Pool())

	miren := snap.Columns[1]
	require.Len(t, miren.Companies, 2)
	assert.Equal(t, int32(6), miren.TotalDemand())

	poolIDs := []string{}
	for _, c := range snap.Pool.Companies {
		poolIDs = append(poolIDs, c.ID)
	}
	assert.Equal(t, []string{"c2", "c3"}, poolIDs, "orphaned assignments are shown in the pool")

	column, ok := snap.Find("c3")
	require.True(t, ok)
	assert.True(t, column.Pool())
	_, ok = snap.Find("missing")
	assert.False(t, ok)
}

func TestMoveRefetches(t *testing.T) {
	src := fixture()
	b := New(src)

	snap, err := b.Move(context.Background(), "c2", strPtr("t-ane"))
	require.NoError(t, err)
	column, ok := snap.Find("c2")
	require.True(t, ok)
	assert.Equal(t, "Zuriñe", column.Title)

	snap, err = b.Move(context.Background(), "c2", nil)
	require.NoError(t, err)
	column, _ = snap.Find("c2")
	assert.True(t, column.Pool())
}

func TestMoveFailureLeavesBoardUntouched(t *testing.T) {
	src := fixture()
	src.assignErr = &client.APIError{Status: 400, Code: "unknown_teacher"}
	b := New(src)

	_, err := b.Move(context.Background(), "c2", strPtr("t-missing"))
	assert.Equal(t, "unknown_teacher", client.Code(err))
	assert.Zero(t, src.loadCount())

	snap, err := b.Load(context.Background())
	require.NoError(t, err)
	column, _ := snap.Find("c2")
	assert.True(t, column.Pool())
}

func TestRefresherPollsUntilCancelled(t *testing.T) {
	src := fixture()
	r := NewRefresher(New(src), 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	updates := 0
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, func(Snapshot) {
			mu.Lock()
			updates++
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return updates >= 3
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestRefresherStopsOnUnauthorized(t *testing.T) {
	src := fixture()
	src.listErr = &client.APIError{Status: 401, Code: "invalid_token"}
	r := NewRefresher(New(src), time.Millisecond, zerolog.Nop())

	err := r.Run(context.Background(), func(Snapshot) { t.Fatal("unexpected update") })
	assert.True(t, errors.Is(err, client.ErrUnauthorized))
}

func TestRefresherKeepsPollingAfterTransientError(t *testing.T) {
	src := fixture()
	src.listErr = errors.New("temporary")
	r := NewRefresher(New(src), 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx, func(Snapshot) {}) }()

	require.Eventually(t, func() bool { return src.loadCount() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestDefaultInterval(t *testing.T) {
	r := NewRefresher(New(fixture()), 0, zerolog.Nop())
	assert.Equal(t, DefaultRefreshInterval, r.interval)
}
