package integration

import (
	"context"
	"log"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"bi-copilot-be/internal/dto"
	"bi-copilot-be/internal/entity"
	"bi-copilot-be/internal/repository/specification"
	"bi-copilot-be/internal/repository/unitofwork"
	"bi-copilot-be/internal/service"
	"bi-copilot-be/pkg/agent"
	"bi-copilot-be/pkg/database"
	"bi-copilot-be/pkg/llm"
	"bi-copilot-be/pkg/titlegen"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedAgent struct{ reply string }

func (a *cannedAgent) Complete(_ context.Context, _ []llm.Message, _ agent.BusinessContext) (*agent.Result, error) {
	return &agent.Result{Reply: a.reply}, nil
}

type quietLogger struct{}

func (quietLogger) Debug(string, string, map[string]interface{}) {}
func (quietLogger) Info(string, string, map[string]interface{})  {}
func (quietLogger) Warn(string, string, map[string]interface{})  {}
func (quietLogger) Error(string, string, map[string]interface{}) {}
func (quietLogger) Sync() error                                  { return nil }

// Two first messages racing against one fresh session must leave the title
// renamed exactly once: the final title comes from one turn's heuristic pass,
// and the second turn never re-derives over it.
func TestConcurrentFirstMessagesRenameOnce(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	titles := titlegen.NewEngine(titlegen.DefaultConfig(), rand.New(rand.NewSource(time.Now().UnixNano())))
	svc := service.NewChatbotService(
		uowFactory,
		&cannedAgent{reply: "Here is what I found."},
		titles,
		quietLogger{},
		nil, "", nil,
		5*time.Second,
	)

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := uuid.New()
	user := &entity.User{
		Id:       userId,
		Email:    "test-race-" + uuid.New().String() + "@example.com",
		FullName: "Race Test User",
		Role:     "user",
		Status:   "active",
	}
	require.NoError(t, uow.UserRepository().Create(ctx, user))

	created, err := svc.CreateSession(ctx, userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	defer func() { _ = svc.DeleteSession(ctx, userId, created.Id) }()

	// Each message resolves to a distinct deterministic title, so the final
	// title tells us whose heuristic pass won.
	chats := []string{
		"help me draft a business plan",   // -> Business Planning
		"run a swot for our new product",  // -> SWOT Analysis
	}

	var wg sync.WaitGroup
	errs := make([]error, len(chats))
	for i, chat := range chats {
		wg.Add(1)
		go func(i int, chat string) {
			defer wg.Done()
			_, errs[i] = svc.SendChat(ctx, userId, &dto.SendChatRequest{
				ChatSessionId: created.Id,
				Chat:          chat,
			})
		}(i, chat)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "turn %d failed", i)
	}

	final, err := svc.GetSession(ctx, userId, created.Id)
	require.NoError(t, err)

	assert.Contains(t, []string{"Business Planning", "SWOT Analysis"}, final.Title,
		"title must come from exactly one turn's heuristic, got %q", final.Title)
	assert.Equal(t, 4, final.MessageCount)

	msgCount, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: created.Id},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(4), msgCount)

	// A later turn on the now-titled session must not rename again.
	_, err = svc.SendChat(ctx, userId, &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "what are the market trends here",
	})
	require.NoError(t, err)

	after, err := svc.GetSession(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, final.Title, after.Title)
}
