package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/llm"
	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// ErrGenerationFailed is returned when lesson or quiz generation cannot
// produce content. Chat and encouragement never return it; they degrade to a
// friendly default instead.
var ErrGenerationFailed = errors.New("content generation failed")

const tutorPersona = "You are Professor Luna, a friendly AI tutor who specializes in making learning fun and accessible for children aged 5-16. Always respond in JSON format."

// TutorService mediates between user input and the external text-generation
// service: it builds context-bearing prompts, normalizes structured replies,
// and substitutes safe defaults when the upstream misbehaves.
type TutorService struct {
	db      *gorm.DB
	gen     llm.Generator
	timeout time.Duration
}

// NewTutorService creates a service bound to a generator. Every upstream call
// is bounded by timeout; a timeout takes the same path as a hard failure.
func NewTutorService(db *gorm.DB, gen llm.Generator, timeout time.Duration) *TutorService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TutorService{db: db, gen: gen, timeout: timeout}
}

// TutorReply is the normalized chat response. All four fields are always
// populated, from the model when possible and from defaults otherwise.
type TutorReply struct {
	Message       string   `json:"message"`
	Suggestions   []string `json:"suggestions"`
	Encouragement string   `json:"encouragement"`
	NextTopics    []string `json:"nextTopics"`
}

func fallbackReply() *TutorReply {
	return &TutorReply{
		Message:       "I'm having trouble connecting right now. Let's try again in a moment!",
		Suggestions:   []string{"Check your internet connection", "Try asking a simpler question", "Take a short break"},
		Encouragement: "Don't worry, we'll figure this out together!",
		NextTopics:    []string{"Review previous lesson", "Try a different approach", "Ask for help"},
	}
}

// Chat answers a student message in context and appends both turns to the
// user's session transcript. Upstream failures degrade to a fallback reply;
// only persistence failures surface as errors.
func (s *TutorService) Chat(ctx context.Context, user *models.User, message string, sessCtx models.SessionContext) (*TutorReply, error) {
	subject := sessCtx.Subject
	if subject == "" {
		subject = "General"
	}
	topic := sessCtx.CurrentTopic
	if topic == "" {
		topic = "General learning"
	}

	prompt := fmt.Sprintf(`You are a caring tutor for a %d-year-old student in grade %d.

Current context:
- Subject: %s
- Topic: %s
- Student message: %q

Respond with age-appropriate language, an encouraging tone and clear explanations.

Respond in JSON format with: message, suggestions (array of 3 learning tips), encouragement (motivational phrase), nextTopics (array of 3 related topics to explore).`,
		user.Age, user.GradeLevel, subject, topic, message)

	reply := fallbackReply()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	raw, err := s.gen.GenerateJSON(callCtx, tutorPersona, prompt, 0.7)
	cancel()
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("tutor chat generation degraded: %v", err)
		}
	} else {
		reply = normalizeTutorReply(raw)
	}

	if err := s.appendTranscript(ctx, user.ID, message, reply.Message, sessCtx); err != nil {
		return nil, err
	}
	return reply, nil
}

// normalizeTutorReply fills every missing or malformed field with its
// default; a parse error never reaches the caller.
func normalizeTutorReply(raw json.RawMessage) *TutorReply {
	def := fallbackReply()
	def.Message = "I'm here to help you learn! What would you like to explore today?"
	def.Suggestions = []string{"Take breaks while studying", "Practice regularly", "Ask questions when confused"}
	def.Encouragement = "You're doing great! Keep up the excellent work!"
	def.NextTopics = []string{"Review basics", "Try practice exercises", "Explore related concepts"}

	var parsed TutorReply
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return def
	}

	if parsed.Message == "" {
		parsed.Message = def.Message
	}
	if len(parsed.Suggestions) == 0 {
		parsed.Suggestions = def.Suggestions
	}
	if parsed.Encouragement == "" {
		parsed.Encouragement = def.Encouragement
	}
	if len(parsed.NextTopics) == 0 {
		parsed.NextTopics = def.NextTopics
	}
	return &parsed
}

// appendTranscript upserts the user's session, appending the two new turns.
// The transcript is append-only and currently unbounded.
func (s *TutorService) appendTranscript(ctx context.Context, userID, userMsg, tutorMsg string, sessCtx models.SessionContext) error {
	now := time.Now()
	turns := []models.ChatMessage{
		{Role: "user", Content: utils.Sanitize(userMsg), Timestamp: now},
		{Role: "assistant", Content: tutorMsg, Timestamp: now},
	}

	var session models.AiSession
	err := s.db.WithContext(ctx).First(&session, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = models.AiSession{UserID: userID, Messages: turns, Context: sessCtx}
		return s.db.WithContext(ctx).Create(&session).Error
	}
	if err != nil {
		return err
	}

	session.Messages = append(session.Messages, turns...)
	session.Context = sessCtx
	return s.db.WithContext(ctx).Save(&session).Error
}

// Session returns the user's transcript, or an empty session when none exists.
func (s *TutorService) Session(ctx context.Context, userID string) (*models.AiSession, error) {
	var session models.AiSession
	err := s.db.WithContext(ctx).First(&session, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.AiSession{UserID: userID, Messages: models.MessageList{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// LessonContent generates a structured lesson. A failed call or unusable
// reply is a hard error; there is no lesson to fall back to.
func (s *TutorService) LessonContent(ctx context.Context, subject, topic string, gradeLevel, difficulty int) (*models.LessonContent, error) {
	prompt := fmt.Sprintf(`Create a comprehensive lesson on %q for %s at grade %d level (difficulty %d/5).

Include:
- Clear title
- Age-appropriate explanation
- 2-3 practical examples with solutions
- 4-5 key learning points
- 3-4 practice questions with multiple choice answers

Respond in JSON format with: title, explanation, examples (array with problem/solution/explanation), keyPoints (array), practiceQuestions (array with question/options/correctAnswer/explanation).`,
		topic, subject, gradeLevel, difficulty)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.gen.GenerateJSON(callCtx, "You are an expert curriculum designer creating engaging educational content for children. Always respond in JSON format.", prompt, 0.6)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var content models.LessonContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("%w: unparseable lesson body", ErrGenerationFailed)
	}

	if content.Title == "" {
		content.Title = fmt.Sprintf("%s - %s", topic, subject)
	}
	if content.Explanation == "" {
		content.Explanation = "This lesson will help you understand the basics."
	}
	return &content, nil
}

// Quiz generates numQuestions multiple-choice questions. An empty question
// list counts as unusable output and hard-fails.
func (s *TutorService) Quiz(ctx context.Context, subject, topic string, gradeLevel, numQuestions int) ([]models.QuizQuestion, error) {
	prompt := fmt.Sprintf(`Create a %d-question quiz on %q for %s at grade %d level.

Requirements:
- Age-appropriate questions
- Multiple choice with 4 options each
- Mix of difficulty levels (1-3)
- Clear explanations for correct answers

Respond in JSON format with: questions (array with question/options/correctAnswer/explanation/difficulty).`,
		numQuestions, topic, subject, gradeLevel)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.gen.GenerateJSON(callCtx, "You are an expert educator creating assessment materials for children. Always respond in JSON format.", prompt, 0.5)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var parsed struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unparseable quiz body", ErrGenerationFailed)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions generated", ErrGenerationFailed)
	}
	return parsed.Questions, nil
}

// EncouragementInput summarizes the stats the encouragement prompt mentions.
type EncouragementInput struct {
	XPPoints           int
	CurrentStreak      int
	RecentAchievements []string
	StrugglingAreas    []string
}

const defaultEncouragement = "You're doing great! Keep learning and growing!"

// Encouragement produces a short motivational message. Any failure degrades
// to the default; the caller never sees an error from the upstream.
func (s *TutorService) Encouragement(ctx context.Context, in EncouragementInput) string {
	prompt := fmt.Sprintf(`Generate an encouraging message for a student with:
- XP Points: %d
- Learning Streak: %d days
- Recent Achievements: %s
- Areas to improve: %s

Create a personalized, motivating message that celebrates their progress and encourages continued learning.

Respond in JSON format with: message`,
		in.XPPoints, in.CurrentStreak, joinOrNone(in.RecentAchievements), joinOrNone(in.StrugglingAreas))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.gen.GenerateJSON(callCtx, tutorPersona, prompt, 0.8)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("encouragement generation degraded: %v", err)
		}
		return defaultEncouragement
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Message == "" {
		return defaultEncouragement
	}
	return parsed.Message
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none yet"
	}
	out := items[0]
	for _, it := range items[1:] {
		out += ", " + it
	}
	return out
}
