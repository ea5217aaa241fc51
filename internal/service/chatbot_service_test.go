package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"bi-copilot-be/internal/constant"
	"bi-copilot-be/internal/dto"
	"bi-copilot-be/internal/entity"
	"bi-copilot-be/internal/pkg/apperrors"
	"bi-copilot-be/internal/repository/contract"
	"bi-copilot-be/internal/repository/specification"
	"bi-copilot-be/internal/repository/unitofwork"

	"bi-copilot-be/pkg/agent"
	"bi-copilot-be/pkg/llm"
	"bi-copilot-be/pkg/titlegen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"math/rand"
)

// --- in-memory fakes ---

type memStore struct {
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.ChatSession
	messages []*entity.ChatMessage
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.ChatSession),
	}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) UserRepository() contract.UserRepository {
	return &memUserRepo{store: u.store}
}
func (u *memUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepo{store: u.store}
}
func (u *memUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &memMessageRepo{store: u.store}
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}
func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}
func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if u, found := r.store.users[byID.ID]; found {
				return u, nil
			}
		}
	}
	return nil, nil
}
func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}
func (r *memUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	return nil
}
func (r *memUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}
func (r *memUserRepo) MarkPasswordResetTokenUsed(ctx context.Context, id uuid.UUID) error { return nil }
func (r *memUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	return nil
}
func (r *memUserRepo) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error) {
	return nil, nil
}
func (r *memUserRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error { return nil }

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}
func (r *memSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}
func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s, ok := r.store.sessions[id]; ok {
		now := time.Now()
		s.DeletedAt = &now
		s.IsDeleted = true
	}
	return nil
}
func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.matching(specs) {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}
func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	matched := r.matching(specs)
	sort.Slice(matched, func(i, j int) bool {
		ti, tj := matched[i].CreatedAt, matched[j].CreatedAt
		if matched[i].UpdatedAt != nil {
			ti = *matched[i].UpdatedAt
		}
		if matched[j].UpdatedAt != nil {
			tj = *matched[j].UpdatedAt
		}
		return ti.After(tj)
	})
	out := make([]*entity.ChatSession, 0, len(matched))
	for _, s := range matched {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}
func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.matching(specs))), nil
}

func (r *memSessionRepo) matching(specs []specification.Specification) []*entity.ChatSession {
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if s.IsDeleted {
			continue
		}
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				if s.Id != sp.ID {
					ok = false
				}
			case specification.UserOwnedBy:
				if s.UserId != sp.UserID {
					ok = false
				}
			}
		}
		if ok {
			out = append(out, s)
		}
	}
	return out
}

type memMessageRepo struct{ store *memStore }

func (r *memMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}
func (r *memMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	for _, m := range r.store.messages {
		if m.ChatSessionId == sessionId {
			m.IsDeleted = true
		}
	}
	return nil
}
func (r *memMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	matched := r.matching(specs)
	if len(matched) == 0 {
		return nil, nil
	}
	copied := *matched[0]
	return &copied, nil
}
func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	matched := r.matching(specs)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	out := make([]*entity.ChatMessage, 0, len(matched))
	for _, m := range matched {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}
func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.matching(specs))), nil
}
func (r *memMessageRepo) CountForUser(ctx context.Context, userId uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, m := range r.store.messages {
		if m.IsDeleted || m.CreatedAt.Before(since) {
			continue
		}
		if s, ok := r.store.sessions[m.ChatSessionId]; ok && s.UserId == userId && !s.IsDeleted {
			count++
		}
	}
	return count, nil
}
func (r *memMessageRepo) DailyActivityForUser(ctx context.Context, userId uuid.UUID, since time.Time, limit int) ([]contract.DailyMessageCount, error) {
	return nil, nil
}

func (r *memMessageRepo) matching(specs []specification.Specification) []*entity.ChatMessage {
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if m.IsDeleted {
			continue
		}
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByChatSessionID:
				if m.ChatSessionId != sp.ChatSessionID {
					ok = false
				}
			case specification.ByRole:
				if m.Role != sp.Role {
					ok = false
				}
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// fakeAgent scripts the completion outcome.
type fakeAgent struct {
	reply     string
	toolsUsed []string
	err       error
	calls     int
}

func (a *fakeAgent) Complete(ctx context.Context, history []llm.Message, bizCtx agent.BusinessContext) (*agent.Result, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &agent.Result{Reply: a.reply, ToolsUsed: a.toolsUsed}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- fixture ---

type fixture struct {
	store   *memStore
	agent   *fakeAgent
	service IChatbotService
	userId  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	userId := uuid.New()
	industry := "fintech"
	store.users[userId] = &entity.User{
		Id:       userId,
		Email:    "owner@example.com",
		FullName: "Owner",
		Industry: &industry,
	}

	fa := &fakeAgent{reply: "Here is my analysis.", toolsUsed: []string{"market_research"}}
	titles := titlegen.NewEngine(titlegen.DefaultConfig(), rand.New(rand.NewSource(1)))

	svc := NewChatbotService(
		&memFactory{store: store},
		fa,
		titles,
		nopLogger{},
		nil, // no stream bus in unit tests
		"CHAT_TURN_COMPLETED",
		nil,
		5*time.Second,
	)

	return &fixture{store: store, agent: fa, service: svc, userId: userId}
}

func (f *fixture) createSession(t *testing.T, title string) *dto.SessionResponse {
	t.Helper()
	resp, err := f.service.CreateSession(context.Background(), f.userId, &dto.CreateSessionRequest{Title: title})
	require.NoError(t, err)
	return resp
}

// --- tests ---

func TestCreateSessionAssignsDefaultTitle(t *testing.T) {
	f := newFixture(t)

	resp := f.createSession(t, "")
	assert.NotEmpty(t, resp.Title)
	assert.Equal(t, 0, resp.MessageCount)

	named := f.createSession(t, "Q3 Planning")
	assert.Equal(t, "Q3 Planning", named.Title)
}

func TestSendChatPersistsBothMessagesAndCount(t *testing.T) {
	f := newFixture(t)
	session := f.createSession(t, "")

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "hello there",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatMessageRoleUser, resp.Sent.Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, resp.Reply.Role)
	assert.Equal(t, "Here is my analysis.", resp.Reply.Chat)
	assert.Equal(t, []string{"market_research"}, resp.Reply.ToolsUsed)
	assert.False(t, resp.Degraded)

	// message_count on the session must equal persisted message rows.
	stored := f.store.sessions[session.Id]
	history, err := f.service.GetChatHistory(context.Background(), f.userId, session.Id)
	require.NoError(t, err)
	assert.Equal(t, len(history), stored.MessageCount)
	assert.Equal(t, 2, stored.MessageCount)
	assert.NotNil(t, stored.UpdatedAt)
}

func TestSendChatFirstMessageRenamesOnce(t *testing.T) {
	f := newFixture(t)
	session := f.createSession(t, "")

	// Owner profile industry is fintech, so the heuristic must land in the
	// finance title set regardless of message content.
	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "What are the market trends?",
	})
	require.NoError(t, err)

	financeTitles := titlegen.DefaultConfig().IndustryTitles["finance"]
	assert.Contains(t, financeTitles, resp.ChatSessionTitle)

	titleAfterFirst := resp.ChatSessionTitle

	// Second message must never re-trigger the heuristic.
	resp2, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "business plan for Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, titleAfterFirst, resp2.ChatSessionTitle)
	assert.True(t, f.store.sessions[session.Id].TitleGenerated)
}

func TestSendChatManualRenameSuppressesHeuristic(t *testing.T) {
	f := newFixture(t)
	session := f.createSession(t, "")

	_, err := f.service.RenameSession(context.Background(), f.userId, session.Id, &dto.RenameSessionRequest{Title: "My Chosen Name"})
	require.NoError(t, err)

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "What are the market trends in fintech?",
	})
	require.NoError(t, err)
	assert.Equal(t, "My Chosen Name", resp.ChatSessionTitle)
}

func TestSendChatUpstreamFailureDegradesToFallback(t *testing.T) {
	f := newFixture(t)
	f.agent.err = errors.New("upstream timeout")
	session := f.createSession(t, "")

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "hello",
	})

	// No error escapes; the turn ends in a persisted fallback reply.
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Equal(t, constant.FallbackAssistantReply, resp.Reply.Chat)
	assert.Empty(t, resp.Reply.ToolsUsed)

	history, err := f.service.GetChatHistory(context.Background(), f.userId, session.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, constant.FallbackAssistantReply, history[1].Chat)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history[1].Role)
}

func TestSendChatUnknownSessionIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: uuid.New(),
		Chat:          "hello",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionOwnershipNeverLeaks(t *testing.T) {
	f := newFixture(t)
	session := f.createSession(t, "secret session")
	stranger := uuid.New()

	_, err := f.service.GetSession(context.Background(), stranger, session.Id)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.service.RenameSession(context.Background(), stranger, session.Id, &dto.RenameSessionRequest{Title: "hijack"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.service.GetChatHistory(context.Background(), stranger, session.Id)
	assert.True(t, apperrors.IsNotFound(err))

	err = f.service.DeleteSession(context.Background(), stranger, session.Id)
	assert.True(t, apperrors.IsNotFound(err))

	// The session is untouched.
	assert.Equal(t, "secret session", f.store.sessions[session.Id].Title)
	assert.False(t, f.store.sessions[session.Id].IsDeleted)
}

func TestGetAllSessionsMostRecentFirst(t *testing.T) {
	f := newFixture(t)

	first := f.createSession(t, "first")
	second := f.createSession(t, "second")

	// Touch the first session so it becomes most recently updated.
	_, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: first.Id,
		Chat:          "bump",
	})
	require.NoError(t, err)

	sessions, err := f.service.GetAllSessions(context.Background(), f.userId)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.Id, sessions[0].Id)
	assert.Equal(t, second.Id, sessions[1].Id)
}

func TestDeleteSessionSoftDeletesWithMessages(t *testing.T) {
	f := newFixture(t)
	session := f.createSession(t, "")

	_, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "hello",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteSession(context.Background(), f.userId, session.Id))

	_, err = f.service.GetSession(context.Background(), f.userId, session.Id)
	assert.True(t, apperrors.IsNotFound(err))

	sessions, err := f.service.GetAllSessions(context.Background(), f.userId)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSendChatHistoryReachesAgentInOrder(t *testing.T) {
	f := newFixture(t)
	session := f.createSession(t, "")

	_, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "first question",
	})
	require.NoError(t, err)

	_, err = f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Chat:          "second question",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, f.agent.calls)

	history, err := f.service.GetChatHistory(context.Background(), f.userId, session.Id)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "first question", history[0].Chat)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history[1].Role)
	assert.Equal(t, "second question", history[2].Chat)
}
