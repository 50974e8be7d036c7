package academy_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/academy"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (academy.AcademyService, *metrics.Mock) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	m := metrics.NewMock()
	return academy.New(db, m, academy.WithClock(func() time.Time { return now })), m
}

func seedAcademy(t *testing.T, svc academy.AcademyService) *academy.Academy {
	t.Helper()
	a, err := svc.CreateAcademy(context.Background(), academy.NewAcademy{
		Name: "Elite Cricket Academy", OwnerID: "owner1", OwnerName: "Rahul", City: "Mumbai",
		ContactEmail: "info@elite.example",
		Coaches: []academy.NewCoach{
			{CoachID: "c1", CoachName: "Ravi", Specialization: []string{"batting"}, Experience: 12},
		},
		Students: []academy.NewStudent{
			{StudentID: "s1", StudentName: "Arjun"},
			{StudentID: "s2", StudentName: "Priya", Level: academy.LevelIntermediate},
			{StudentID: "s3", StudentName: "Kabir"},
			{StudentID: "s4", StudentName: "Meera", Status: "inactive"},
		},
	})
	require.NoError(t, err)
	return a
}

func seedProgram(t *testing.T, svc academy.AcademyService, academyID string, max int) *academy.TrainingProgram {
	t.Helper()
	p, err := svc.CreateTrainingProgram(context.Background(), academy.NewProgram{
		AcademyID: academyID, Name: "Batting Fundamentals", CoachID: "c1",
		Level: academy.LevelBeginner, MaxStudents: max, Status: academy.ProgramOngoing,
		Schedule: academy.Schedule{Days: []string{"monday", "wednesday"}, Time: "16:00", DurationMinutes: 90, Venue: "Net 1"},
	})
	require.NoError(t, err)
	return p
}

func TestCreateAcademy(t *testing.T) {
	svc, m := setupTestDB(t)
	ctx := context.Background()

	a := seedAcademy(t, svc)
	assert.NotEmpty(t, a.ID)
	assert.Len(t, a.Students, 4)
	assert.Equal(t, academy.LevelBeginner, a.Students[0].Level)
	assert.Equal(t, "active", a.Students[0].Status)
	assert.Equal(t, now, a.Students[0].JoinedDate)
	assert.Equal(t, 1, m.RecordsCreated("academies"))

	owned, err := svc.GetAcademiesByOwner(ctx, "owner1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, a.ID, owned[0].ID)

	_, err = svc.CreateAcademy(ctx, academy.NewAcademy{
		Name: "Dupes", OwnerID: "owner1",
		Students: []academy.NewStudent{{StudentID: "x", StudentName: "X"}, {StudentID: "x", StudentName: "X"}},
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = svc.CreateAcademy(ctx, academy.NewAcademy{Name: "No owner"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing, err := svc.GetAcademy(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAddStudentAndCoach(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()
	a := seedAcademy(t, svc)

	updated, err := svc.AddStudent(ctx, a.ID, academy.NewStudent{StudentID: "s5", StudentName: "Dev"})
	require.NoError(t, err)
	assert.Len(t, updated.Students, 5)
	assert.Equal(t, 2, updated.Version)

	_, err = svc.AddStudent(ctx, a.ID, academy.NewStudent{StudentID: "s1", StudentName: "Arjun"})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	updated, err = svc.AddCoach(ctx, a.ID, academy.NewCoach{CoachID: "c2", CoachName: "Zaheer"})
	require.NoError(t, err)
	assert.Len(t, updated.Coaches, 2)
	assert.Equal(t, []string{}, updated.Coaches[1].Specialization)

	_, err = svc.AddCoach(ctx, a.ID, academy.NewCoach{CoachID: "c1", CoachName: "Ravi"})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = svc.AddCoach(ctx, "missing", academy.NewCoach{CoachID: "c9", CoachName: "Nobody"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateTrainingProgram(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()
	a := seedAcademy(t, svc)

	p := seedProgram(t, svc, a.ID, 3)
	assert.Equal(t, "Ravi", p.CoachName)
	assert.Equal(t, 0, p.CurrentStudents)
	assert.Equal(t, []string{}, p.Students)

	tests := []struct {
		name string
		in   academy.NewProgram
		want error
	}{
		{"coach outside academy", academy.NewProgram{AcademyID: a.ID, Name: "X", CoachID: "c9", Level: academy.LevelBeginner, MaxStudents: 5}, apperr.ErrValidation},
		{"unknown academy", academy.NewProgram{AcademyID: "missing", Name: "X", CoachID: "c1", Level: academy.LevelBeginner, MaxStudents: 5}, apperr.ErrNotFound},
		{"zero capacity", academy.NewProgram{AcademyID: a.ID, Name: "X", CoachID: "c1", Level: academy.LevelBeginner}, apperr.ErrValidation},
		{"bad day", academy.NewProgram{AcademyID: a.ID, Name: "X", CoachID: "c1", Level: academy.LevelBeginner, MaxStudents: 5, Schedule: academy.Schedule{Days: []string{"funday"}}}, apperr.ErrValidation},
		{"end before start", academy.NewProgram{AcademyID: a.ID, Name: "X", CoachID: "c1", Level: academy.LevelBeginner, MaxStudents: 5, StartDate: now, EndDate: now.AddDate(0, 0, -1)}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTrainingProgram(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	programs, err := svc.GetTrainingPrograms(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, programs, 1)
}

func TestEnrollStudent(t *testing.T) {
	svc, m := setupTestDB(t)
	ctx := context.Background()
	a := seedAcademy(t, svc)
	p := seedProgram(t, svc, a.ID, 2)

	_, err := svc.EnrollStudent(ctx, p.ID, "s1")
	require.NoError(t, err)
	enrolled, err := svc.EnrollStudent(ctx, p.ID, "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, enrolled.CurrentStudents)
	assert.Equal(t, []string{"s1", "s2"}, enrolled.Students)

	_, err = svc.EnrollStudent(ctx, p.ID, "s1")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = svc.EnrollStudent(ctx, p.ID, "s3")
	assert.ErrorIs(t, err, apperr.ErrCapacityExceeded)
	assert.Equal(t, 1, m.Rejections("capacity_exceeded"))

	_, err = svc.EnrollStudent(ctx, p.ID, "stranger")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.EnrollStudent(ctx, "missing", "s1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	programs, err := svc.GetTrainingPrograms(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, 2, programs[0].CurrentStudents)
}

func TestMarkAttendance(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()
	a := seedAcademy(t, svc)
	p := seedProgram(t, svc, a.ID, 3)
	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := svc.EnrollStudent(ctx, p.ID, id)
		require.NoError(t, err)
	}

	session, err := svc.CreateTrainingSession(ctx, academy.NewSession{ProgramID: p.ID, ScheduledAt: now.Add(-time.Hour), Topic: "Cover drive"})
	require.NoError(t, err)
	assert.Equal(t, academy.SessionScheduled, session.Status)
	assert.Equal(t, "Net 1", session.Venue)

	tests := []struct {
		name    string
		records []academy.AttendanceInput
		want    error
	}{
		{"not enrolled", []academy.AttendanceInput{{StudentID: "s4", Status: academy.AttendancePresent}}, apperr.ErrValidation},
		{"duplicate", []academy.AttendanceInput{{StudentID: "s1", Status: academy.AttendancePresent}, {StudentID: "s1", Status: academy.AttendanceLate}}, apperr.ErrValidation},
		{"bad status", []academy.AttendanceInput{{StudentID: "s1", Status: "asleep"}}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MarkAttendance(ctx, session.ID, tt.records)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = svc.MarkAttendance(ctx, "missing", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	marked, err := svc.MarkAttendance(ctx, session.ID, []academy.AttendanceInput{
		{StudentID: "s1", Status: academy.AttendancePresent},
		{StudentID: "s2", Status: academy.AttendanceAbsent},
		{StudentID: "s3", Status: academy.AttendanceLate},
	})
	require.NoError(t, err)
	assert.Equal(t, academy.SessionCompleted, marked.Status)
	assert.Equal(t, "Priya", marked.Attendance[1].StudentName)

	summary, err := svc.GetAttendanceSummary(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Marked)
	assert.Equal(t, 1, summary.PresentCount)
	assert.Equal(t, 1, summary.AbsentCount)
	assert.Equal(t, 1, summary.LateCount)
	assert.False(t, summary.NoData)

	sessions, err := svc.GetTrainingSessions(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestHealthMetrics(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()
	weight, height, given := 70.0, 175.0, 21.5

	later, err := svc.RecordHealthMetric(ctx, academy.NewHealthMetric{
		StudentID: "s1", Date: now, Weight: &weight, Height: &height, RecordedBy: "c1",
	})
	require.NoError(t, err)
	require.NotNil(t, later.BMI)
	assert.Equal(t, 22.9, *later.BMI)

	earlier, err := svc.RecordHealthMetric(ctx, academy.NewHealthMetric{
		StudentID: "s1", Date: now.AddDate(0, -1, 0), Weight: &weight, Height: &height, BMI: &given, RecordedBy: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, 21.5, *earlier.BMI)

	noHeight, err := svc.RecordHealthMetric(ctx, academy.NewHealthMetric{StudentID: "s2", Date: now, Weight: &weight, RecordedBy: "c1"})
	require.NoError(t, err)
	assert.Nil(t, noHeight.BMI)

	_, err = svc.RecordHealthMetric(ctx, academy.NewHealthMetric{StudentID: "s1", RecordedBy: "c1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.GetHealthMetrics(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
}

func TestVideoAnalyses(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()

	first, err := svc.RecordVideoAnalysis(ctx, academy.NewVideoAnalysis{
		StudentID: "s1", VideoURL: "https://videos.example/1.mp4", Title: "Nets", RecordedAt: now.AddDate(0, 0, -2),
	})
	require.NoError(t, err)
	assert.Nil(t, first.AnalyzedAt)

	second, err := svc.RecordVideoAnalysis(ctx, academy.NewVideoAnalysis{
		StudentID: "s1", VideoURL: "https://videos.example/2.mp4", Title: "Match", RecordedAt: now.AddDate(0, 0, -1),
		Analysis: academy.TechniqueAnalysis{Batting: &academy.BattingAnalysis{Stance: "balanced", Recommendations: []string{"watch the ball"}}},
	})
	require.NoError(t, err)
	require.NotNil(t, second.AnalyzedAt)
	assert.Equal(t, now, *second.AnalyzedAt)

	_, err = svc.RecordVideoAnalysis(ctx, academy.NewVideoAnalysis{StudentID: "s1", VideoURL: "not a url", Title: "Bad"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	videos, err := svc.GetVideoAnalyses(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, second.ID, videos[0].ID)
	assert.Equal(t, "balanced", videos[0].Analysis.Batting.Stance)
}

func TestGetAcademyStats(t *testing.T) {
	svc, m := setupTestDB(t)
	ctx := context.Background()
	a := seedAcademy(t, svc)
	p := seedProgram(t, svc, a.ID, 5)
	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := svc.EnrollStudent(ctx, p.ID, id)
		require.NoError(t, err)
	}
	done, err := svc.CreateTrainingSession(ctx, academy.NewSession{ProgramID: p.ID, ScheduledAt: now.Add(-48 * time.Hour), Topic: "Footwork"})
	require.NoError(t, err)
	_, err = svc.MarkAttendance(ctx, done.ID, []academy.AttendanceInput{
		{StudentID: "s1", Status: academy.AttendancePresent},
		{StudentID: "s2", Status: academy.AttendanceAbsent},
		{StudentID: "s3", Status: academy.AttendanceLate},
	})
	require.NoError(t, err)
	_, err = svc.CreateTrainingSession(ctx, academy.NewSession{ProgramID: p.ID, ScheduledAt: now.Add(48 * time.Hour), Topic: "Pull shot"})
	require.NoError(t, err)

	stats, err := svc.GetAcademyStats(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.TotalStudents)
	assert.Equal(t, 3, stats.ActiveStudents)
	assert.Equal(t, 1, stats.TotalCoaches)
	assert.Equal(t, 1, stats.ActivePrograms)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.UpcomingSessions)
	assert.Equal(t, 66.67, stats.AverageAttendance)
	assert.Equal(t, 1, m.AggregationRuns("academy_stats"))

	missing, err := svc.GetAcademyStats(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
