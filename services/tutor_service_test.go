package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashgupta200/AILearningJourney/models"
)

// fakeGenerator returns a canned payload or error for every call.
type fakeGenerator struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, system, prompt string, temperature float32) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func newTutorForTest(t *testing.T, gen *fakeGenerator) (*TutorService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	user := createTestUser(t, db, nil)
	return NewTutorService(db, gen, 5*time.Second), user
}

func TestChatReturnsModelReply(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{
		"message": "Great question about fractions!",
		"suggestions": ["Draw it out", "Use pizza slices", "Practice daily"],
		"encouragement": "You can do this!",
		"nextTopics": ["Decimals", "Percentages", "Ratios"]
	}`)}
	svc, user := newTutorForTest(t, gen)

	reply, err := svc.Chat(context.Background(), user, "What is a fraction?", models.SessionContext{Subject: "Math", CurrentTopic: "Fractions"})
	require.NoError(t, err)
	assert.Equal(t, "Great question about fractions!", reply.Message)
	assert.Len(t, reply.Suggestions, 3)
	assert.Equal(t, "You can do this!", reply.Encouragement)
	assert.Equal(t, 1, gen.calls)
}

func TestChatDegradesToFallbackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	svc, user := newTutorForTest(t, gen)

	reply, err := svc.Chat(context.Background(), user, "Help me", models.SessionContext{})
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "trouble connecting")
	assert.NotEmpty(t, reply.Suggestions)
	assert.NotEmpty(t, reply.Encouragement)
	assert.NotEmpty(t, reply.NextTopics)
}

func TestChatFillsMissingFieldsWithDefaults(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"message": "Only a message"}`)}
	svc, user := newTutorForTest(t, gen)

	reply, err := svc.Chat(context.Background(), user, "Hi", models.SessionContext{})
	require.NoError(t, err)
	assert.Equal(t, "Only a message", reply.Message)
	assert.NotEmpty(t, reply.Suggestions)
	assert.NotEmpty(t, reply.Encouragement)
	assert.NotEmpty(t, reply.NextTopics)
}

func TestChatUnparseableReplyUsesDefaults(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`not json at all`)}
	svc, user := newTutorForTest(t, gen)

	reply, err := svc.Chat(context.Background(), user, "Hi", models.SessionContext{})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Message)
	assert.NotEmpty(t, reply.Suggestions)
}

func TestChatAppendsTranscript(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"message": "Answer one"}`)}
	db := newTestDB(t)
	user := createTestUser(t, db, nil)
	svc := NewTutorService(db, gen, 5*time.Second)
	ctx := context.Background()

	_, err := svc.Chat(ctx, user, "Question one", models.SessionContext{Subject: "Math"})
	require.NoError(t, err)
	_, err = svc.Chat(ctx, user, "Question two", models.SessionContext{Subject: "Math"})
	require.NoError(t, err)

	session, err := svc.Session(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 4)
	assert.Equal(t, "user", session.Messages[0].Role)
	assert.Equal(t, "Question one", session.Messages[0].Content)
	assert.Equal(t, "assistant", session.Messages[1].Role)
	assert.Equal(t, "Question two", session.Messages[2].Content)
}

func TestSessionMissingReturnsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewTutorService(db, &fakeGenerator{}, time.Second)

	session, err := svc.Session(context.Background(), "no-such-user")
	require.NoError(t, err)
	assert.Empty(t, session.Messages)
}

func TestLessonContentHardFailsOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	svc, _ := newTutorForTest(t, gen)

	_, err := svc.LessonContent(context.Background(), "Math", "Fractions", 5, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestLessonContentHardFailsOnGarbage(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`[1,2,3`)}
	svc, _ := newTutorForTest(t, gen)

	_, err := svc.LessonContent(context.Background(), "Math", "Fractions", 5, 2)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestLessonContentFillsTitleAndExplanation(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"keyPoints": ["one"]}`)}
	svc, _ := newTutorForTest(t, gen)

	content, err := svc.LessonContent(context.Background(), "Math", "Fractions", 5, 2)
	require.NoError(t, err)
	assert.Equal(t, "Fractions - Math", content.Title)
	assert.NotEmpty(t, content.Explanation)
}

func TestQuizGeneration(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"questions": [
		{"question": "2+2?", "options": ["3", "4", "5", "6"], "correctAnswer": 1, "explanation": "Basic addition", "difficulty": 1}
	]}`)}
	svc, _ := newTutorForTest(t, gen)

	questions, err := svc.Quiz(context.Background(), "Math", "Addition", 3, 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].CorrectAnswer)
}

func TestQuizEmptyQuestionListHardFails(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"questions": []}`)}
	svc, _ := newTutorForTest(t, gen)

	_, err := svc.Quiz(context.Background(), "Math", "Addition", 3, 5)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestEncouragementDefaultsOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	svc, _ := newTutorForTest(t, gen)

	msg := svc.Encouragement(context.Background(), EncouragementInput{XPPoints: 10})
	assert.Equal(t, defaultEncouragement, msg)
}

func TestEncouragementUsesModelMessage(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"message": "Amazing streak, keep it up!"}`)}
	svc, _ := newTutorForTest(t, gen)

	msg := svc.Encouragement(context.Background(), EncouragementInput{
		XPPoints:           500,
		CurrentStreak:      7,
		RecentAchievements: []string{"XP Master 500"},
	})
	assert.Equal(t, "Amazing streak, keep it up!", msg)
}

func TestEncouragementEmptyMessageDefaults(t *testing.T) {
	gen := &fakeGenerator{payload: json.RawMessage(`{"message": ""}`)}
	svc, _ := newTutorForTest(t, gen)

	msg := svc.Encouragement(context.Background(), EncouragementInput{})
	assert.Equal(t, defaultEncouragement, msg)
}
