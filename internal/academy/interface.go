package academy

import "context"

// AcademyService manages academies with their students, coaches, training
// programs, sessions and per-student health and video records.
type AcademyService interface {
	GetAcademy(ctx context.Context, id string) (*Academy, error)
	GetAcademiesByOwner(ctx context.Context, ownerID string) ([]Academy, error)
	CreateAcademy(ctx context.Context, in NewAcademy) (*Academy, error)
	AddStudent(ctx context.Context, academyID string, in NewStudent) (*Academy, error)
	AddCoach(ctx context.Context, academyID string, in NewCoach) (*Academy, error)

	GetTrainingPrograms(ctx context.Context, academyID string) ([]TrainingProgram, error)
	CreateTrainingProgram(ctx context.Context, in NewProgram) (*TrainingProgram, error)
	EnrollStudent(ctx context.Context, programID, studentID string) (*TrainingProgram, error)

	GetTrainingSessions(ctx context.Context, programID string) ([]TrainingSession, error)
	CreateTrainingSession(ctx context.Context, in NewSession) (*TrainingSession, error)
	MarkAttendance(ctx context.Context, sessionID string, records []AttendanceInput) (*TrainingSession, error)
	GetAttendanceSummary(ctx context.Context, sessionID string) (*AttendanceSummary, error)

	GetHealthMetrics(ctx context.Context, studentID string) ([]HealthMetric, error)
	RecordHealthMetric(ctx context.Context, in NewHealthMetric) (*HealthMetric, error)
	GetVideoAnalyses(ctx context.Context, studentID string) ([]VideoAnalysis, error)
	RecordVideoAnalysis(ctx context.Context, in NewVideoAnalysis) (*VideoAnalysis, error)

	GetAcademyStats(ctx context.Context, academyID string) (*AcademyStats, error)
}
