package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain"
	"timekeeper/internal/repository/sqlite"
	"timekeeper/internal/service"
)

type entryFixture struct {
	db      *sqlite.DB
	entries *service.TimeEntryService
	user    *domain.User
	project *domain.Project
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()
	db := newTestDB(t)
	auth := newTestAuthService(t, db)
	projects := service.NewProjectService(db.Projects())
	ctx := context.Background()

	user := registerTestUser(t, auth, "tracker")
	project, err := projects.Create(ctx, service.CreateProjectInput{Name: "Tracked"})
	require.NoError(t, err)

	return &entryFixture{
		db:      db,
		entries: service.NewTimeEntryService(db.Entries(), db.Projects()),
		user:    user,
		project: project,
	}
}

func TestTimeEntryService_Create_ComputesDuration(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	entry, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
		EndTime:   "2024-01-01T11:30:00Z",
	})
	require.NoError(t, err)

	require.NotNil(t, entry.Duration)
	assert.Equal(t, int64(9000), *entry.Duration)
	assert.True(t, entry.IsBillable, "billable defaults to true")
	assert.Equal(t, "Tracked", entry.ProjectName)
}

func TestTimeEntryService_Create_OpenEntry(t *testing.T) {
	f := newEntryFixture(t)

	entry, err := f.entries.Create(context.Background(), f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
	})
	require.NoError(t, err)

	assert.Nil(t, entry.EndTime)
	assert.Nil(t, entry.Duration)
}

func TestTimeEntryService_Create_Validation(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	_, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{StartTime: "2024-01-01T09:00:00Z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "missing project_id")

	_, err = f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{ProjectID: f.project.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "missing start_time")

	_, err = f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "yesterday at nine",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unparseable start_time")

	_, err = f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: 9999,
		StartTime: "2024-01-01T09:00:00Z",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown project")
}

func TestTimeEntryService_Create_AcceptsTimestampVariants(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	for _, start := range []string{
		"2024-01-01T09:00:00Z",
		"2024-01-01T09:00:00+02:00",
		"2024-01-01T09:00:00",
		"2024-01-01",
	} {
		_, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
			ProjectID: f.project.ID,
			StartTime: start,
		})
		assert.NoError(t, err, "start_time %q", start)
	}
}

func TestTimeEntryService_Update_RecomputesDuration(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	entry, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
	})
	require.NoError(t, err)
	require.Nil(t, entry.Duration)

	end := "2024-01-01T10:00:00Z"
	updated, err := f.entries.Update(ctx, f.user.ID, entry.ID, service.EntryPatch{EndTime: &end})
	require.NoError(t, err)

	require.NotNil(t, updated.Duration)
	assert.Equal(t, int64(3600), *updated.Duration)

	// Moving the start shifts the duration again.
	newStart := "2024-01-01T09:30:00Z"
	updated, err = f.entries.Update(ctx, f.user.ID, entry.ID, service.EntryPatch{StartTime: &newStart})
	require.NoError(t, err)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, int64(1800), *updated.Duration)
}

func TestTimeEntryService_Update_ProjectChangeValidated(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	entry, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
	})
	require.NoError(t, err)

	ghost := int64(4242)
	_, err = f.entries.Update(ctx, f.user.ID, entry.ID, service.EntryPatch{ProjectID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The entry keeps its original project.
	got, err := f.entries.Get(ctx, f.user.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, got.ProjectID)
}

func TestTimeEntryService_OwnershipIsolation(t *testing.T) {
	f := newEntryFixture(t)
	auth := newTestAuthService(t, f.db)
	ctx := context.Background()

	intruder := registerTestUser(t, auth, "intruder")

	entry, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
	})
	require.NoError(t, err)

	_, err = f.entries.Get(ctx, intruder.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	notes := "mine now"
	_, err = f.entries.Update(ctx, intruder.ID, entry.ID, service.EntryPatch{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.entries.Delete(ctx, intruder.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.entries.List(ctx, intruder.ID, service.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTimeEntryService_DeleteThenGet(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	entry, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, f.entries.Delete(ctx, f.user.ID, entry.ID))

	_, err = f.entries.Get(ctx, f.user.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTimeEntryService_List_BadDateFilter(t *testing.T) {
	f := newEntryFixture(t)

	_, err := f.entries.List(context.Background(), f.user.ID, service.EntryFilter{StartDate: "not-a-date"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTimeEntryService_Summarize(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	// 2.5 billable hours.
	_, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
		EndTime:   "2024-01-01T11:30:00Z",
	})
	require.NoError(t, err)

	// 1 non-billable hour.
	notBillable := false
	_, err = f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID:  f.project.ID,
		StartTime:  "2024-01-02T09:00:00Z",
		EndTime:    "2024-01-02T10:00:00Z",
		IsBillable: &notBillable,
	})
	require.NoError(t, err)

	// Open entry: counted, contributes 0 hours.
	_, err = f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-03T09:00:00Z",
	})
	require.NoError(t, err)

	summary, err := f.entries.Summarize(ctx, f.user.ID, service.EntryFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalEntries)
	assert.Equal(t, 3.5, summary.TotalHours)
	assert.Equal(t, 2.5, summary.BillableHours)
	assert.Equal(t, 1.0, summary.NonBillableHours)
}

func TestTimeEntryService_Summarize_DateWindow(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	_, err := f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-01-01T09:00:00Z",
		EndTime:   "2024-01-01T10:00:00Z",
	})
	require.NoError(t, err)
	_, err = f.entries.Create(ctx, f.user.ID, service.CreateEntryInput{
		ProjectID: f.project.ID,
		StartTime: "2024-03-01T09:00:00Z",
		EndTime:   "2024-03-01T10:00:00Z",
	})
	require.NoError(t, err)

	summary, err := f.entries.Summarize(ctx, f.user.ID, service.EntryFilter{
		StartDate: "2024-02-01",
		EndDate:   "2024-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalEntries)
	assert.Equal(t, 1.0, summary.TotalHours)
}
