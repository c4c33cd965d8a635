package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashgupta200/AILearningJourney/models"
)

func TestOverallEmptySubjectReportsZeroProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	createTestSubject(t, db, "Mathematics")

	overall, err := svc.Overall(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, overall.SubjectProgress, 1)
	assert.Equal(t, 0.0, overall.SubjectProgress[0].Progress)
	assert.Equal(t, 0, overall.SubjectProgress[0].TotalLessons)
}

func TestOverallCountsStartedRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 75 })
	subject := createTestSubject(t, db, "Science")
	done := createTestLesson(t, db, subject.ID, "Plants")
	started := createTestLesson(t, db, subject.ID, "Animals")
	createTestLesson(t, db, subject.ID, "Weather")

	now := time.Now()
	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: user.ID, SubjectID: subject.ID, LessonID: done.ID,
		Progress: 1.0, Completed: true, CompletedAt: &now,
	}).Error)
	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: user.ID, SubjectID: subject.ID, LessonID: started.ID,
		Progress: 0.3,
	}).Error)

	overall, err := svc.Overall(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, overall.TotalLessons)
	// Started-but-unfinished rows count on the dashboard.
	assert.Equal(t, 2, overall.CompletedLessons)
	assert.Equal(t, 75, overall.TotalXP)

	require.Len(t, overall.SubjectProgress, 1)
	sp := overall.SubjectProgress[0]
	assert.Equal(t, "Science", sp.SubjectName)
	assert.Equal(t, 3, sp.TotalLessons)
	assert.Equal(t, 2, sp.CompletedLessons)
	assert.InDelta(t, 200.0/3.0, sp.Progress, 0.01)
}

func TestOverallIgnoresOtherUsersProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	other := createTestUser(t, db, func(u *models.User) { u.Email = "other@example.com" })
	subject := createTestSubject(t, db, "English")
	lesson := createTestLesson(t, db, subject.ID, "Verbs")

	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: other.ID, SubjectID: subject.ID, LessonID: lesson.ID, Progress: 1.0, Completed: true,
	}).Error)

	overall, err := svc.Overall(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, overall.CompletedLessons)
	require.Len(t, overall.SubjectProgress, 1)
	assert.Equal(t, 0, overall.SubjectProgress[0].CompletedLessons)
}

func TestStatsSubjectBreakdown(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, func(u *models.User) { u.TotalStudyTime = 120 })
	math := createTestSubject(t, db, "Mathematics")
	history := createTestSubject(t, db, "History")
	mathLesson := createTestLesson(t, db, math.ID, "Algebra")
	historyLesson := createTestLesson(t, db, history.ID, "Middle Ages")

	now := time.Now()
	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: user.ID, SubjectID: math.ID, LessonID: mathLesson.ID,
		Progress: 1.0, Completed: true, CompletedAt: &now, Score: intPtr(90),
	}).Error)
	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: user.ID, SubjectID: history.ID, LessonID: historyLesson.ID,
		Progress: 1.0, Completed: true, CompletedAt: &now, Score: intPtr(40),
	}).Error)

	stats, err := svc.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalStudyTime)
	assert.Equal(t, []string{"Mathematics"}, stats.StrongSubjects)
	assert.Equal(t, []string{"History"}, stats.ImprovementAreas)
}

func TestStatsAverageQuizScore(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	subject := createTestSubject(t, db, "Science")
	lesson := createTestLesson(t, db, subject.ID, "Space")
	quiz := models.Quiz{LessonID: lesson.ID, Title: "Space Quiz"}
	require.NoError(t, db.Create(&quiz).Error)

	require.NoError(t, db.Create(&models.UserQuizResult{
		UserID: user.ID, QuizID: quiz.ID, Score: 4, TotalQuestions: 5, Answers: models.IntList{0, 1, 2, 3, 0},
	}).Error)
	require.NoError(t, db.Create(&models.UserQuizResult{
		UserID: user.ID, QuizID: quiz.ID, Score: 2, TotalQuestions: 5, Answers: models.IntList{1, 1, 1, 1, 1},
	}).Error)

	stats, err := svc.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, stats.AverageScore, 0.001)
}

func TestStatsNoActivityIsAllZeroes(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)

	stats, err := svc.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Empty(t, stats.StrongSubjects)
	assert.Empty(t, stats.ImprovementAreas)
	require.Len(t, stats.WeeklyProgress, 7)
	for _, entry := range stats.WeeklyProgress {
		assert.Equal(t, 0, entry.LessonsCompleted)
		assert.Equal(t, 0, entry.XPGained)
	}
}

func TestWeeklyProgressFromCompletionTimestamps(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	subject := createTestSubject(t, db, "Mathematics")
	todayLesson := createTestLesson(t, db, subject.ID, "Today")
	oldLesson := createTestLesson(t, db, subject.ID, "Old")

	now := time.Now()
	lastMonth := now.AddDate(0, 0, -30)
	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: user.ID, SubjectID: subject.ID, LessonID: todayLesson.ID,
		Progress: 1.0, Completed: true, CompletedAt: &now, Score: intPtr(10),
	}).Error)
	require.NoError(t, db.Create(&models.ProgressRecord{
		UserID: user.ID, SubjectID: subject.ID, LessonID: oldLesson.ID,
		Progress: 1.0, Completed: true, CompletedAt: &lastMonth, Score: intPtr(10),
	}).Error)

	quiz := models.Quiz{LessonID: todayLesson.ID, Title: "Quiz"}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&models.UserQuizResult{
		UserID: user.ID, QuizID: quiz.ID, Score: 3, TotalQuestions: 5, Answers: models.IntList{0, 0, 0, 0, 0},
	}).Error)

	stats, err := svc.Stats(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stats.WeeklyProgress, 7)

	today := stats.WeeklyProgress[6]
	assert.Equal(t, now.Format("2006-01-02"), today.Date)
	assert.Equal(t, 1, today.LessonsCompleted)
	// 50 + 2*10 lesson XP plus 3*10 quiz XP, only for today's activity.
	assert.Equal(t, 100, today.XPGained)

	for _, entry := range stats.WeeklyProgress[:6] {
		assert.Equal(t, 0, entry.LessonsCompleted)
		assert.Equal(t, 0, entry.XPGained)
	}
}
