package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"bi-copilot-be/internal/constant"
	"bi-copilot-be/internal/entity"
	"bi-copilot-be/internal/repository/specification"
	"bi-copilot-be/internal/repository/unitofwork"
	"bi-copilot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Transactional Chat Turn", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     "user",
			Status:   "active",
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		err := uow.Begin(ctx)
		require.NoError(t, err)
		defer uow.Rollback()

		session := &entity.ChatSession{
			Id:     uuid.New(),
			UserId: userId,
			Title:  "Integration Session",
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))

		msg := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleUser,
			Chat:          "integration hello",
		}
		require.NoError(t, uow.ChatMessageRepository().Create(ctx, msg))

		// Reads inside the tx see the uncommitted rows.
		found, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Integration Session", found.Title)

		count, err := uow.ChatMessageRepository().Count(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		// Rolled back by the deferred Rollback; session must not survive.
	})

	t.Run("Ownership Filter", func(t *testing.T) {
		ctx := context.Background()
		found, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: uuid.New()},
			specification.UserOwnedBy{UserID: uuid.New()},
		)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}
