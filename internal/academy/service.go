package academy

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/record"
)

const (
	academyCollection  = "academies"
	programCollection  = "training_programs"
	sessionCollection  = "training_sessions"
	healthCollection   = "health_metrics"
	videoCollection    = "video_analyses"
	defaultStatus      = "active"
	defaultCoachStatus = "active"
)

type Option func(*service)

// WithClock overrides the clock used for joined dates and upcoming-session checks.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func New(db *sql.DB, m metrics.Metrics, opts ...Option) AcademyService {
	s := &service{
		academies: record.New[Academy](db, academyCollection),
		programs:  record.New[TrainingProgram](db, programCollection),
		sessions:  record.New[TrainingSession](db, sessionCollection),
		health:    record.New[HealthMetric](db, healthCollection),
		videos:    record.New[VideoAnalysis](db, videoCollection),
		metrics:   m,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetAcademy(ctx context.Context, id string) (*Academy, error) {
	return s.academies.Get(ctx, id)
}

func (s *service) GetAcademiesByOwner(ctx context.Context, ownerID string) ([]Academy, error) {
	return s.academies.List(ctx, "owner_id", ownerID)
}

func (s *service) CreateAcademy(ctx context.Context, in NewAcademy) (*Academy, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateAcademy", err)
	}
	academy := &Academy{
		Name:         in.Name,
		Description:  in.Description,
		OwnerID:      in.OwnerID,
		OwnerName:    in.OwnerName,
		Location:     in.Location,
		City:         in.City,
		State:        in.State,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Students:     []Student{},
		Coaches:      []Coach{},
	}
	now := s.now().UTC()
	for _, st := range in.Students {
		if err := addStudent(academy, st, now); err != nil {
			return nil, s.reject("CreateAcademy", err)
		}
	}
	for _, c := range in.Coaches {
		if err := addCoach(academy, c); err != nil {
			return nil, s.reject("CreateAcademy", err)
		}
	}

	created, err := s.academies.Insert(ctx, academy)
	if err != nil {
		log.Error("Failed to create academy", "error", err, "name", in.Name)
		return nil, err
	}
	s.metrics.IncRecordsCreated(academyCollection)
	log.Info("Created academy", "academyID", created.ID, "ownerID", created.OwnerID)
	return created, nil
}

func (s *service) AddStudent(ctx context.Context, academyID string, in NewStudent) (*Academy, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("AddStudent", err)
	}
	now := s.now().UTC()
	academy, err := s.academies.Update(ctx, academyID, func(a *Academy) error {
		return addStudent(a, in, now)
	})
	if err != nil {
		return nil, s.reject("AddStudent", err)
	}
	log.Info("Added student to academy", "academyID", academyID, "studentID", in.StudentID)
	return academy, nil
}

func (s *service) AddCoach(ctx context.Context, academyID string, in NewCoach) (*Academy, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("AddCoach", err)
	}
	academy, err := s.academies.Update(ctx, academyID, func(a *Academy) error {
		return addCoach(a, in)
	})
	if err != nil {
		return nil, s.reject("AddCoach", err)
	}
	log.Info("Added coach to academy", "academyID", academyID, "coachID", in.CoachID)
	return academy, nil
}

func addStudent(a *Academy, in NewStudent, joined time.Time) error {
	if _, ok := a.student(in.StudentID); ok {
		return apperr.InvalidState("student %s already belongs to academy", in.StudentID)
	}
	level := in.Level
	if level == "" {
		level = LevelBeginner
	}
	status := in.Status
	if status == "" {
		status = defaultStatus
	}
	a.Students = append(a.Students, Student{
		StudentID:   in.StudentID,
		StudentName: in.StudentName,
		Email:       in.Email,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		JoinedDate:  joined,
		Level:       level,
		Status:      status,
		Avatar:      in.Avatar,
	})
	return nil
}

func addCoach(a *Academy, in NewCoach) error {
	if _, ok := a.coach(in.CoachID); ok {
		return apperr.InvalidState("coach %s already belongs to academy", in.CoachID)
	}
	status := in.Status
	if status == "" {
		status = defaultCoachStatus
	}
	specialization := in.Specialization
	if specialization == nil {
		specialization = []string{}
	}
	a.Coaches = append(a.Coaches, Coach{
		CoachID:        in.CoachID,
		CoachName:      in.CoachName,
		Specialization: specialization,
		Experience:     in.Experience,
		Status:         status,
	})
	return nil
}

func (s *service) reject(op string, err error) error {
	if apperr.IsRejection(err) || apperr.Reason(err) == "not_found" {
		s.metrics.IncRejections(apperr.Reason(err))
		log.Warn("Rejected operation", "op", op, "error", err)
	} else {
		log.Error("Operation failed", "op", op, "error", err)
	}
	return err
}
