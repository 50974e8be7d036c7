package academy

import (
	"context"
	"math"
	"time"
)

// GetAcademyStats returns nil when the academy does not exist.
func (s *service) GetAcademyStats(ctx context.Context, academyID string) (*AcademyStats, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveAggregationDuration("academy_stats", time.Since(start).Seconds()) }()

	academy, err := s.academies.Get(ctx, academyID)
	if err != nil || academy == nil {
		return nil, err
	}
	programs, err := s.programs.List(ctx, "academy_id", academyID)
	if err != nil {
		return nil, s.reject("GetAcademyStats", err)
	}
	owned := make(map[string]bool, len(programs))
	stats := &AcademyStats{
		AcademyID:     academy.ID,
		TotalStudents: len(academy.Students),
		TotalCoaches:  len(academy.Coaches),
	}
	for _, p := range programs {
		owned[p.ID] = true
		if p.Status == ProgramOngoing {
			stats.ActivePrograms++
		}
	}
	for _, st := range academy.Students {
		if st.Status == defaultStatus {
			stats.ActiveStudents++
		}
	}

	sessions, err := s.sessions.Filter(ctx, func(ts *TrainingSession) bool { return owned[ts.ProgramID] })
	if err != nil {
		return nil, s.reject("GetAcademyStats", err)
	}
	now := s.now()
	var marked, attended int
	for _, ts := range sessions {
		stats.TotalSessions++
		if ts.Status == SessionScheduled && ts.ScheduledAt.After(now) {
			stats.UpcomingSessions++
		}
		for _, r := range ts.Attendance {
			marked++
			if r.Status == AttendancePresent || r.Status == AttendanceLate {
				attended++
			}
		}
	}
	if marked > 0 {
		stats.AverageAttendance = math.Round(float64(attended)/float64(marked)*10000) / 100
	}
	return stats, nil
}
