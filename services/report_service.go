package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
)

// ReportService computes read-only rollups from ledger and persistence data.
// It never mutates the store.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new service instance.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// SubjectProgress is one subject's completion rollup.
type SubjectProgress struct {
	SubjectID        string  `json:"subject_id"`
	SubjectName      string  `json:"subject_name"`
	Progress         float64 `json:"progress"` // percent
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
}

// OverallProgress is the dashboard rollup for one user.
type OverallProgress struct {
	TotalLessons     int               `json:"total_lessons"`
	CompletedLessons int               `json:"completed_lessons"`
	TotalXP          int               `json:"total_xp"`
	SubjectProgress  []SubjectProgress `json:"subject_progress"`
}

// Overall computes the user's dashboard rollup. CompletedLessons counts the
// user's progress rows regardless of the completed flag, matching the
// upstream dashboard semantics (a started lesson shows on the dashboard).
func (s *ReportService) Overall(ctx context.Context, userID string) (*OverallProgress, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	var totalLessons int64
	if err := s.db.WithContext(ctx).Model(&models.Lesson{}).Count(&totalLessons).Error; err != nil {
		return nil, err
	}

	var startedLessons int64
	if err := s.db.WithContext(ctx).Model(&models.ProgressRecord{}).
		Where("user_id = ?", userID).
		Count(&startedLessons).Error; err != nil {
		return nil, err
	}

	type subjectRow struct {
		SubjectID        string
		SubjectName      string
		TotalLessons     int
		CompletedLessons int
	}
	var rows []subjectRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT s.id AS subject_id,
		       s.name AS subject_name,
		       COUNT(DISTINCT l.id) AS total_lessons,
		       COUNT(pr.id) AS completed_lessons
		FROM subjects s
		LEFT JOIN lessons l ON l.subject_id = s.id
		LEFT JOIN progress_records pr ON pr.lesson_id = l.id AND pr.user_id = ?
		GROUP BY s.id, s.name`, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	subjectProgress := make([]SubjectProgress, 0, len(rows))
	for _, r := range rows {
		sp := SubjectProgress{
			SubjectID:        r.SubjectID,
			SubjectName:      r.SubjectName,
			CompletedLessons: r.CompletedLessons,
			TotalLessons:     r.TotalLessons,
		}
		if r.TotalLessons > 0 {
			sp.Progress = float64(r.CompletedLessons) / float64(r.TotalLessons) * 100
		}
		subjectProgress = append(subjectProgress, sp)
	}

	return &OverallProgress{
		TotalLessons:     int(totalLessons),
		CompletedLessons: int(startedLessons),
		TotalXP:          user.XPPoints,
		SubjectProgress:  subjectProgress,
	}, nil
}

// WeeklyEntry is one day of the trailing-week activity report.
type WeeklyEntry struct {
	Date             string `json:"date"`
	LessonsCompleted int    `json:"lessons_completed"`
	XPGained         int    `json:"xp_gained"`
}

// UserStats is the analytics summary for the stats page.
type UserStats struct {
	TotalStudyTime   int           `json:"total_study_time"`
	AverageScore     float64       `json:"average_score"`
	StrongSubjects   []string      `json:"strong_subjects"`
	ImprovementAreas []string      `json:"improvement_areas"`
	WeeklyProgress   []WeeklyEntry `json:"weekly_progress"`
}

const strongSubjectCutoff = 70.0

// Stats assembles the user's analytics summary. Strong subjects and
// improvement areas come from per-subject average lesson scores; the weekly
// series comes from real completion timestamps.
func (s *ReportService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	var avgScore float64
	if err := s.db.WithContext(ctx).Model(&models.UserQuizResult{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avgScore).Error; err != nil {
		return nil, err
	}

	strong, weak, err := s.subjectBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekly, err := s.weeklyProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalStudyTime:   user.TotalStudyTime,
		AverageScore:     avgScore,
		StrongSubjects:   strong,
		ImprovementAreas: weak,
		WeeklyProgress:   weekly,
	}, nil
}

func (s *ReportService) subjectBreakdown(ctx context.Context, userID string) (strong, weak []string, err error) {
	type subjectScore struct {
		Name     string
		AvgScore float64
	}
	var rows []subjectScore
	if err := s.db.WithContext(ctx).Raw(`
		SELECT s.name AS name, AVG(pr.score) AS avg_score
		FROM progress_records pr
		JOIN subjects s ON s.id = pr.subject_id
		WHERE pr.user_id = ? AND pr.score IS NOT NULL
		GROUP BY s.name`, userID).Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].AvgScore > rows[j].AvgScore })

	strong = []string{}
	weak = []string{}
	for _, r := range rows {
		if r.AvgScore >= strongSubjectCutoff {
			strong = append(strong, r.Name)
		} else {
			weak = append(weak, r.Name)
		}
	}
	return strong, weak, nil
}

// weeklyProgress returns 7 entries, oldest first, for the trailing 7 calendar
// days inclusive of today. XP gained combines lesson completion XP and quiz XP
// using the same arithmetic the ledger applies.
func (s *ReportService) weeklyProgress(ctx context.Context, userID string) ([]WeeklyEntry, error) {
	now := time.Now()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)

	type dayRow struct {
		Day     string
		Lessons int
		XP      int
	}

	var lessonRows []dayRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT DATE(completed_at) AS day,
		       COUNT(*) AS lessons,
		       SUM(? + ? * COALESCE(score, 0)) AS xp
		FROM progress_records
		WHERE user_id = ? AND completed = ? AND completed_at >= ?
		GROUP BY DATE(completed_at)`,
		lessonBaseXP, scoreBonusXP, userID, true, windowStart).Scan(&lessonRows).Error; err != nil {
		return nil, err
	}

	var quizRows []dayRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT DATE(completed_at) AS day,
		       0 AS lessons,
		       SUM(score * ?) AS xp
		FROM user_quiz_results
		WHERE user_id = ? AND completed_at >= ?
		GROUP BY DATE(completed_at)`,
		quizCorrectXP, userID, windowStart).Scan(&quizRows).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*WeeklyEntry{}
	entries := make([]WeeklyEntry, 7)
	for i := 0; i < 7; i++ {
		date := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		entries[i] = WeeklyEntry{Date: date}
		byDay[date] = &entries[i]
	}

	for _, r := range lessonRows {
		if e, ok := byDay[r.Day]; ok {
			e.LessonsCompleted += r.Lessons
			e.XPGained += r.XP
		}
	}
	for _, r := range quizRows {
		if e, ok := byDay[r.Day]; ok {
			e.XPGained += r.XP
		}
	}

	return entries, nil
}
