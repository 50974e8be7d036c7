package academy

import (
	"context"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
)

// GetHealthMetrics returns a student's measurements oldest first.
func (s *service) GetHealthMetrics(ctx context.Context, studentID string) ([]HealthMetric, error) {
	metrics, err := s.health.List(ctx, "student_id", studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].Date.Before(metrics[j].Date) })
	return metrics, nil
}

func (s *service) RecordHealthMetric(ctx context.Context, in NewHealthMetric) (*HealthMetric, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("RecordHealthMetric", err)
	}
	bmi := in.BMI
	if bmi == nil && in.Weight != nil && in.Height != nil {
		v := BMI(*in.Weight, *in.Height)
		bmi = &v
	}

	created, err := s.health.Insert(ctx, &HealthMetric{
		StudentID:        in.StudentID,
		StudentName:      in.StudentName,
		Date:             in.Date.UTC(),
		Weight:           in.Weight,
		Height:           in.Height,
		BMI:              bmi,
		RestingHeartRate: in.RestingHeartRate,
		BloodPressure:    in.BloodPressure,
		Flexibility:      in.Flexibility,
		Strength:         in.Strength,
		Endurance:        in.Endurance,
		Notes:            in.Notes,
		RecordedBy:       in.RecordedBy,
	})
	if err != nil {
		log.Error("Failed to record health metric", "error", err, "studentID", in.StudentID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(healthCollection)
	log.Info("Recorded health metric", "metricID", created.ID, "studentID", created.StudentID)
	return created, nil
}

// BMI computes body mass index from kilograms and centimetres, rounded to one decimal.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// GetVideoAnalyses returns a student's videos newest first.
func (s *service) GetVideoAnalyses(ctx context.Context, studentID string) ([]VideoAnalysis, error) {
	videos, err := s.videos.List(ctx, "student_id", studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].RecordedAt.After(videos[j].RecordedAt) })
	return videos, nil
}

func (s *service) RecordVideoAnalysis(ctx context.Context, in NewVideoAnalysis) (*VideoAnalysis, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("RecordVideoAnalysis", err)
	}
	now := s.now().UTC()
	recorded := in.RecordedAt
	if recorded.IsZero() {
		recorded = now
	}
	video := &VideoAnalysis{
		StudentID:    in.StudentID,
		StudentName:  in.StudentName,
		SessionID:    in.SessionID,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
		Title:        in.Title,
		Description:  in.Description,
		Analysis:     in.Analysis,
		Tags:         in.Tags,
		RecordedAt:   recorded.UTC(),
	}
	if video.Tags == nil {
		video.Tags = []string{}
	}
	if in.Analysis.Batting != nil || in.Analysis.Bowling != nil || in.Analysis.Fielding != nil {
		video.AnalyzedAt = &now
	}

	created, err := s.videos.Insert(ctx, video)
	if err != nil {
		log.Error("Failed to record video analysis", "error", err, "studentID", in.StudentID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(videoCollection)
	log.Info("Recorded video analysis", "videoID", created.ID, "studentID", created.StudentID)
	return created, nil
}
