package academy

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
)

func (s *service) GetTrainingPrograms(ctx context.Context, academyID string) ([]TrainingProgram, error) {
	return s.programs.List(ctx, "academy_id", academyID)
}

func (s *service) CreateTrainingProgram(ctx context.Context, in NewProgram) (*TrainingProgram, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateTrainingProgram", err)
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return nil, s.reject("CreateTrainingProgram", apperr.Validation("end date is before start date"))
	}
	academy, err := s.academies.Require(ctx, in.AcademyID)
	if err != nil {
		return nil, s.reject("CreateTrainingProgram", err)
	}
	coach, ok := academy.coach(in.CoachID)
	if !ok {
		return nil, s.reject("CreateTrainingProgram", apperr.Validation("coach %s does not belong to academy %s", in.CoachID, in.AcademyID))
	}
	status := in.Status
	if status == "" {
		status = ProgramUpcoming
	}
	days := in.Schedule.Days
	if days == nil {
		days = []string{}
	}

	created, err := s.programs.Insert(ctx, &TrainingProgram{
		AcademyID:     in.AcademyID,
		Name:          in.Name,
		Description:   in.Description,
		CoachID:       coach.CoachID,
		CoachName:     coach.CoachName,
		Level:         in.Level,
		Schedule:      Schedule{Days: days, Time: in.Schedule.Time, DurationMinutes: in.Schedule.DurationMinutes, Venue: in.Schedule.Venue},
		DurationWeeks: in.DurationWeeks,
		MaxStudents:   in.MaxStudents,
		Students:      []string{},
		Status:        status,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
	})
	if err != nil {
		log.Error("Failed to create training program", "error", err, "academyID", in.AcademyID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(programCollection)
	log.Info("Created training program", "programID", created.ID, "academyID", created.AcademyID, "coachID", created.CoachID)
	return created, nil
}

func (s *service) EnrollStudent(ctx context.Context, programID, studentID string) (*TrainingProgram, error) {
	current, err := s.programs.Require(ctx, programID)
	if err != nil {
		return nil, s.reject("EnrollStudent", err)
	}
	academy, err := s.academies.Require(ctx, current.AcademyID)
	if err != nil {
		return nil, s.reject("EnrollStudent", err)
	}
	if _, ok := academy.student(studentID); !ok {
		return nil, s.reject("EnrollStudent", apperr.Validation("student %s does not belong to academy %s", studentID, academy.ID))
	}

	program, err := s.programs.Update(ctx, programID, func(p *TrainingProgram) error {
		if p.Status == ProgramCompleted || p.Status == ProgramCancelled {
			return apperr.InvalidState("program %s is %s", p.ID, p.Status)
		}
		if p.enrolled(studentID) {
			return apperr.InvalidState("student %s already enrolled in program %s", studentID, p.ID)
		}
		p.CurrentStudents = len(p.Students)
		if p.CurrentStudents >= p.MaxStudents {
			return apperr.CapacityExceeded("program %s is full (%d/%d)", p.ID, p.CurrentStudents, p.MaxStudents)
		}
		p.Students = append(p.Students, studentID)
		p.CurrentStudents = len(p.Students)
		return nil
	})
	if err != nil {
		return nil, s.reject("EnrollStudent", err)
	}
	log.Info("Enrolled student", "programID", programID, "studentID", studentID, "currentStudents", program.CurrentStudents)
	return program, nil
}

func (s *service) GetTrainingSessions(ctx context.Context, programID string) ([]TrainingSession, error) {
	return s.sessions.List(ctx, "program_id", programID)
}

func (s *service) CreateTrainingSession(ctx context.Context, in NewSession) (*TrainingSession, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateTrainingSession", err)
	}
	program, err := s.programs.Require(ctx, in.ProgramID)
	if err != nil {
		return nil, s.reject("CreateTrainingSession", err)
	}
	if program.Status == ProgramCompleted || program.Status == ProgramCancelled {
		return nil, s.reject("CreateTrainingSession", apperr.InvalidState("program %s is %s", program.ID, program.Status))
	}
	venue := in.Venue
	if venue == "" {
		venue = program.Schedule.Venue
	}

	created, err := s.sessions.Insert(ctx, &TrainingSession{
		ProgramID:   program.ID,
		ProgramName: program.Name,
		ScheduledAt: in.ScheduledAt.UTC(),
		Venue:       venue,
		CoachID:     program.CoachID,
		CoachName:   program.CoachName,
		Topic:       in.Topic,
		Description: in.Description,
		Status:      SessionScheduled,
		Attendance:  []AttendanceRecord{},
	})
	if err != nil {
		log.Error("Failed to create training session", "error", err, "programID", in.ProgramID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(sessionCollection)
	log.Info("Created training session", "sessionID", created.ID, "programID", created.ProgramID)
	return created, nil
}

func (s *service) MarkAttendance(ctx context.Context, sessionID string, records []AttendanceInput) (*TrainingSession, error) {
	for _, r := range records {
		if err := apperr.Validate(r); err != nil {
			return nil, s.reject("MarkAttendance", err)
		}
	}
	current, err := s.sessions.Require(ctx, sessionID)
	if err != nil {
		return nil, s.reject("MarkAttendance", err)
	}
	program, err := s.programs.Require(ctx, current.ProgramID)
	if err != nil {
		return nil, s.reject("MarkAttendance", err)
	}
	academy, err := s.academies.Require(ctx, program.AcademyID)
	if err != nil {
		return nil, s.reject("MarkAttendance", err)
	}

	marked := make([]AttendanceRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.StudentID] {
			return nil, s.reject("MarkAttendance", apperr.Validation("duplicate attendance for student %s", r.StudentID))
		}
		seen[r.StudentID] = true
		if !program.enrolled(r.StudentID) {
			return nil, s.reject("MarkAttendance", apperr.Validation("student %s is not enrolled in program %s", r.StudentID, program.ID))
		}
		student, _ := academy.student(r.StudentID)
		marked = append(marked, AttendanceRecord{
			StudentID:   r.StudentID,
			StudentName: student.StudentName,
			Status:      r.Status,
			CheckInTime: r.CheckInTime,
			Notes:       r.Notes,
		})
	}

	session, err := s.sessions.Update(ctx, sessionID, func(ts *TrainingSession) error {
		if ts.Status == SessionCancelled {
			return apperr.InvalidState("session %s is cancelled", ts.ID)
		}
		ts.Attendance = marked
		ts.Status = SessionCompleted
		return nil
	})
	if err != nil {
		return nil, s.reject("MarkAttendance", err)
	}
	log.Info("Marked attendance", "sessionID", sessionID, "records", len(marked))
	return session, nil
}

func (s *service) GetAttendanceSummary(ctx context.Context, sessionID string) (*AttendanceSummary, error) {
	session, err := s.sessions.Require(ctx, sessionID)
	if err != nil {
		return nil, s.reject("GetAttendanceSummary", err)
	}
	summary := &AttendanceSummary{
		SessionID: session.ID,
		Marked:    len(session.Attendance),
		NoData:    len(session.Attendance) == 0,
	}
	for _, r := range session.Attendance {
		switch r.Status {
		case AttendancePresent:
			summary.PresentCount++
		case AttendanceAbsent:
			summary.AbsentCount++
		case AttendanceLate:
			summary.LateCount++
		case AttendanceExcused:
			summary.ExcusedCount++
		}
	}
	return summary, nil
}
