package academy

import (
	"time"

	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/record"
)

type service struct {
	academies *record.Store[Academy, *Academy]
	programs  *record.Store[TrainingProgram, *TrainingProgram]
	sessions  *record.Store[TrainingSession, *TrainingSession]
	health    *record.Store[HealthMetric, *HealthMetric]
	videos    *record.Store[VideoAnalysis, *VideoAnalysis]
	metrics   metrics.Metrics
	now       func() time.Time
}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelElite        Level = "elite"
)

type Academy struct {
	record.Meta
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    string    `json:"owner_name"`
	Location     string    `json:"location"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Students     []Student `json:"students"`
	Coaches      []Coach   `json:"coaches"`
}

func (a *Academy) student(id string) (Student, bool) {
	for _, s := range a.Students {
		if s.StudentID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (a *Academy) coach(id string) (Coach, bool) {
	for _, c := range a.Coaches {
		if c.CoachID == id {
			return c, true
		}
	}
	return Coach{}, false
}

type Student struct {
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"date_of_birth"`
	JoinedDate  time.Time `json:"joined_date"`
	Level       Level     `json:"level"`
	Status      string    `json:"status"`
	Avatar      string    `json:"avatar,omitempty"`
}

type Coach struct {
	CoachID        string   `json:"coach_id"`
	CoachName      string   `json:"coach_name"`
	Specialization []string `json:"specialization"`
	Experience     int      `json:"experience"`
	Status         string   `json:"status"`
}

type NewAcademy struct {
	Name         string       `json:"name" validate:"required"`
	Description  string       `json:"description"`
	OwnerID      string       `json:"owner_id" validate:"required"`
	OwnerName    string       `json:"owner_name"`
	Location     string       `json:"location"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	ContactEmail string       `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string       `json:"contact_phone"`
	Students     []NewStudent `json:"students" validate:"dive"`
	Coaches      []NewCoach   `json:"coaches" validate:"dive"`
}

type NewStudent struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Level       Level  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced elite"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	Avatar      string `json:"avatar"`
}

type NewCoach struct {
	CoachID        string   `json:"coach_id" validate:"required"`
	CoachName      string   `json:"coach_name" validate:"required"`
	Specialization []string `json:"specialization"`
	Experience     int      `json:"experience" validate:"gte=0"`
	Status         string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ProgramStatus string

const (
	ProgramUpcoming  ProgramStatus = "upcoming"
	ProgramOngoing   ProgramStatus = "ongoing"
	ProgramCompleted ProgramStatus = "completed"
	ProgramCancelled ProgramStatus = "cancelled"
)

type TrainingProgram struct {
	record.Meta
	AcademyID       string        `json:"academy_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	CoachID         string        `json:"coach_id"`
	CoachName       string        `json:"coach_name"`
	Level           Level         `json:"level"`
	Schedule        Schedule      `json:"schedule"`
	DurationWeeks   int           `json:"duration_weeks"`
	MaxStudents     int           `json:"max_students"`
	CurrentStudents int           `json:"current_students"`
	Students        []string      `json:"students"`
	Status          ProgramStatus `json:"status"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
}

func (p *TrainingProgram) enrolled(studentID string) bool {
	for _, id := range p.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

type Schedule struct {
	Days            []string `json:"days" validate:"dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Time            string   `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes int      `json:"duration_minutes" validate:"gte=0"`
	Venue           string   `json:"venue"`
}

type NewProgram struct {
	AcademyID     string        `json:"academy_id" validate:"required"`
	Name          string        `json:"name" validate:"required"`
	Description   string        `json:"description"`
	CoachID       string        `json:"coach_id" validate:"required"`
	Level         Level         `json:"level" validate:"required,oneof=beginner intermediate advanced elite"`
	Schedule      Schedule      `json:"schedule"`
	DurationWeeks int           `json:"duration_weeks" validate:"gte=0"`
	MaxStudents   int           `json:"max_students" validate:"required,gte=1"`
	Status        ProgramStatus `json:"status" validate:"omitempty,oneof=upcoming ongoing"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
}

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type TrainingSession struct {
	record.Meta
	ProgramID   string             `json:"program_id"`
	ProgramName string             `json:"program_name"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	Venue       string             `json:"venue"`
	CoachID     string             `json:"coach_id"`
	CoachName   string             `json:"coach_name"`
	Topic       string             `json:"topic"`
	Description string             `json:"description"`
	Status      SessionStatus      `json:"status"`
	Attendance  []AttendanceRecord `json:"attendance"`
}

type NewSession struct {
	ProgramID   string    `json:"program_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Venue       string    `json:"venue"`
	Topic       string    `json:"topic" validate:"required"`
	Description string    `json:"description"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

type AttendanceRecord struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Status      AttendanceStatus `json:"status"`
	CheckInTime *time.Time       `json:"check_in_time,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

type AttendanceInput struct {
	StudentID   string           `json:"student_id" validate:"required"`
	Status      AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	CheckInTime *time.Time       `json:"check_in_time,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

type AttendanceSummary struct {
	SessionID    string `json:"session_id"`
	Marked       int    `json:"marked"`
	PresentCount int    `json:"present_count"`
	AbsentCount  int    `json:"absent_count"`
	LateCount    int    `json:"late_count"`
	ExcusedCount int    `json:"excused_count"`
	NoData       bool   `json:"no_data"`
}

type BloodPressure struct {
	Systolic  int `json:"systolic" validate:"gt=0"`
	Diastolic int `json:"diastolic" validate:"gt=0"`
}

type Strength struct {
	BenchPress *float64 `json:"bench_press,omitempty" validate:"omitempty,gte=0"`
	Squat      *float64 `json:"squat,omitempty" validate:"omitempty,gte=0"`
}

type Endurance struct {
	RunDistance *float64 `json:"run_distance,omitempty" validate:"omitempty,gte=0"`
	RunTime     *float64 `json:"run_time,omitempty" validate:"omitempty,gte=0"`
}

// HealthMetric is a point-in-time measurement. Only the student and date are required.
type HealthMetric struct {
	record.Meta
	StudentID        string         `json:"student_id"`
	StudentName      string         `json:"student_name"`
	Date             time.Time      `json:"date"`
	Weight           *float64       `json:"weight,omitempty"`
	Height           *float64       `json:"height,omitempty"`
	BMI              *float64       `json:"bmi,omitempty"`
	RestingHeartRate *int           `json:"resting_heart_rate,omitempty"`
	BloodPressure    *BloodPressure `json:"blood_pressure,omitempty"`
	Flexibility      *float64       `json:"flexibility,omitempty"`
	Strength         *Strength      `json:"strength,omitempty"`
	Endurance        *Endurance     `json:"endurance,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	RecordedBy       string         `json:"recorded_by"`
}

type NewHealthMetric struct {
	StudentID        string         `json:"student_id" validate:"required"`
	StudentName      string         `json:"student_name"`
	Date             time.Time      `json:"date" validate:"required"`
	Weight           *float64       `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Height           *float64       `json:"height,omitempty" validate:"omitempty,gt=0"`
	BMI              *float64       `json:"bmi,omitempty" validate:"omitempty,gt=0"`
	RestingHeartRate *int           `json:"resting_heart_rate,omitempty" validate:"omitempty,gt=0"`
	BloodPressure    *BloodPressure `json:"blood_pressure,omitempty"`
	Flexibility      *float64       `json:"flexibility,omitempty"`
	Strength         *Strength      `json:"strength,omitempty"`
	Endurance        *Endurance     `json:"endurance,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	RecordedBy       string         `json:"recorded_by" validate:"required"`
}

type BattingAnalysis struct {
	Stance          string   `json:"stance"`
	Backlift        string   `json:"backlift"`
	FollowThrough   string   `json:"follow_through"`
	Footwork        string   `json:"footwork"`
	Timing          string   `json:"timing"`
	Power           string   `json:"power"`
	Recommendations []string `json:"recommendations"`
}

type BowlingAnalysis struct {
	RunUp           string   `json:"run_up"`
	Action          string   `json:"action"`
	Release         string   `json:"release"`
	FollowThrough   string   `json:"follow_through"`
	Accuracy        string   `json:"accuracy"`
	Pace            string   `json:"pace"`
	Recommendations []string `json:"recommendations"`
}

type FieldingAnalysis struct {
	Positioning     string   `json:"positioning"`
	Catching        string   `json:"catching"`
	Throwing        string   `json:"throwing"`
	Agility         string   `json:"agility"`
	Recommendations []string `json:"recommendations"`
}

type TechniqueAnalysis struct {
	Batting  *BattingAnalysis  `json:"batting,omitempty"`
	Bowling  *BowlingAnalysis  `json:"bowling,omitempty"`
	Fielding *FieldingAnalysis `json:"fielding,omitempty"`
}

type VideoAnalysis struct {
	record.Meta
	StudentID    string            `json:"student_id"`
	StudentName  string            `json:"student_name"`
	SessionID    string            `json:"session_id,omitempty"`
	VideoURL     string            `json:"video_url"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Analysis     TechniqueAnalysis `json:"analysis"`
	Tags         []string          `json:"tags"`
	RecordedAt   time.Time         `json:"recorded_at"`
	AnalyzedAt   *time.Time        `json:"analyzed_at,omitempty"`
}

type NewVideoAnalysis struct {
	StudentID    string            `json:"student_id" validate:"required"`
	StudentName  string            `json:"student_name"`
	SessionID    string            `json:"session_id"`
	VideoURL     string            `json:"video_url" validate:"required,url"`
	ThumbnailURL string            `json:"thumbnail_url" validate:"omitempty,url"`
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description"`
	Analysis     TechniqueAnalysis `json:"analysis"`
	Tags         []string          `json:"tags"`
	RecordedAt   time.Time         `json:"recorded_at"`
}

type AcademyStats struct {
	AcademyID         string  `json:"academy_id"`
	TotalStudents     int     `json:"total_students"`
	ActiveStudents    int     `json:"active_students"`
	TotalCoaches      int     `json:"total_coaches"`
	ActivePrograms    int     `json:"active_programs"`
	TotalSessions     int     `json:"total_sessions"`
	AverageAttendance float64 `json:"average_attendance"`
	UpcomingSessions  int     `json:"upcoming_sessions"`
}
