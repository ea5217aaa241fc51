package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bi-copilot-be/internal/constant"
	"bi-copilot-be/internal/dto"
	"bi-copilot-be/internal/entity"
	"bi-copilot-be/internal/pkg/apperrors"
	"bi-copilot-be/internal/pkg/logger"
	"bi-copilot-be/internal/repository/specification"
	"bi-copilot-be/internal/repository/unitofwork"

	"bi-copilot-be/pkg/agent"
	"bi-copilot-be/pkg/events"
	"bi-copilot-be/pkg/llm"
	pktNats "bi-copilot-be/pkg/nats"
	"bi-copilot-be/pkg/titlegen"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IChatbotService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

// completionAgent is what the orchestrator needs from the agent layer.
type completionAgent interface {
	Complete(ctx context.Context, history []llm.Message, bizCtx agent.BusinessContext) (*agent.Result, error)
}

type chatbotService struct {
	uowFactory     unitofwork.RepositoryFactory
	agent          completionAgent
	titles         *titlegen.Engine
	log            logger.ILogger
	bus            message.Publisher
	chatTopic      string
	eventPublisher *pktNats.Publisher

	completionTimeout time.Duration
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	completion completionAgent,
	titles *titlegen.Engine,
	log logger.ILogger,
	bus message.Publisher,
	chatTopic string,
	eventPublisher *pktNats.Publisher,
	completionTimeout time.Duration,
) IChatbotService {
	return &chatbotService{
		uowFactory:        uowFactory,
		agent:             completion,
		titles:            titles,
		log:               log,
		bus:               bus,
		chatTopic:         chatTopic,
		eventPublisher:    eventPublisher,
		completionTimeout: completionTimeout,
	}
}

func (cs *chatbotService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = cs.titles.RandomDefault()
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return sessionToResponse(session), nil
}

func (cs *chatbotService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (cs *chatbotService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, sessionToResponse(s))
	}
	return responses, nil
}

func (cs *chatbotService) RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	session.Title = req.Title
	// A name the user chose is never clobbered by the heuristic later.
	session.TitleGenerated = true
	now := time.Now()
	session.UpdatedAt = &now

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (cs *chatbotService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	history := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		history = append(history, &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Chat:      m.Chat,
			ToolsUsed: m.ToolsUsed,
			CreatedAt: m.CreatedAt,
		})
	}
	return history, nil
}

// SendChat runs one chat turn. Everything that touches the store happens in
// a single transaction so message_count and updated_at can never drift from
// the message rows. Upstream completion failures degrade to the fallback
// reply; only persistence failures surface to the caller.
func (cs *chatbotService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := cs.findOwnedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	// Rename-once check against store state as of this append. Two
	// concurrent first messages cannot both see a count of one inside
	// their transactions.
	userMsgCount, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.ByRole{Role: constant.ChatMessageRoleUser},
	)
	if err != nil {
		return nil, err
	}

	bizCtx := cs.resolveBusinessContext(ctx, uow, userId, request.BusinessContext)

	if userMsgCount == 1 && !session.TitleGenerated {
		cs.applyHeuristicTitle(session, request.Chat, bizCtx.Industry)
	}

	history, err := cs.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	reply, toolsUsed, degraded := cs.complete(ctx, history, bizCtx)

	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          reply,
		Role:          constant.ChatMessageRoleAssistant,
		ChatSessionId: session.Id,
		ToolsUsed:     toolsUsed,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	totalMessages, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.MessageCount = int(totalMessages)
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.publishChatTurn(userId, session, assistantMessage, degraded)

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Degraded:         degraded,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Chat:      assistantMessage.Chat,
			Role:      assistantMessage.Role,
			ToolsUsed: assistantMessage.ToolsUsed,
			CreatedAt: assistantMessage.CreatedAt,
		},
	}, nil
}

func (cs *chatbotService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if cs.eventPublisher != nil {
		event := events.NewSessionDeleted(userId.String(), session.Id.String())
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.log.Warn("ChatbotService", "Failed to publish CHAT_SESSION_DELETED event", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	return nil
}

// --- helpers ---

func (cs *chatbotService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		// Same answer whether the session is missing or owned by someone
		// else; existence is never leaked.
		return nil, apperrors.NotFound("chat session")
	}
	return session, nil
}

// applyHeuristicTitle mutates the session in place; any failure is logged
// and swallowed so the chat turn proceeds regardless.
func (cs *chatbotService) applyHeuristicTitle(session *entity.ChatSession, firstMessage, industry string) {
	defer func() {
		if r := recover(); r != nil {
			cs.log.Error("ChatbotService", "Title heuristic panicked", map[string]interface{}{
				"session_id": session.Id,
				"panic":      fmt.Sprintf("%v", r),
			})
		}
	}()

	session.Title = cs.titles.Derive(firstMessage, industry)
	session.TitleGenerated = true
}

// resolveBusinessContext merges the stored profile with request overrides.
// Profile lookup failures degrade to an empty context; grounding is optional.
func (cs *chatbotService) resolveBusinessContext(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, override *dto.BusinessContext) agent.BusinessContext {
	var bizCtx agent.BusinessContext

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		cs.log.Warn("ChatbotService", "Profile lookup failed, proceeding without business context", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	} else if user != nil {
		if user.CompanyName != nil {
			bizCtx.Company = *user.CompanyName
		}
		if user.Industry != nil {
			bizCtx.Industry = *user.Industry
		}
		if user.BusinessType != nil {
			bizCtx.BusinessType = *user.BusinessType
		}
		if user.CompanySize != nil {
			bizCtx.CompanySize = *user.CompanySize
		}
	}

	if override != nil {
		if override.Company != "" {
			bizCtx.Company = override.Company
		}
		if override.Industry != "" {
			bizCtx.Industry = override.Industry
		}
		if override.BusinessType != "" {
			bizCtx.BusinessType = override.BusinessType
		}
		if override.CompanySize != "" {
			bizCtx.CompanySize = override.CompanySize
		}
	}

	return bizCtx
}

func (cs *chatbotService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Chat})
	}
	return history, nil
}

// complete calls the agent under a bounded timeout. Any upstream failure is
// downgraded to the constant fallback reply.
func (cs *chatbotService) complete(ctx context.Context, history []llm.Message, bizCtx agent.BusinessContext) (reply string, toolsUsed []string, degraded bool) {
	completionCtx, cancel := context.WithTimeout(ctx, cs.completionTimeout)
	defer cancel()

	result, err := cs.agent.Complete(completionCtx, history, bizCtx)
	if err != nil || result == nil || result.Reply == "" {
		if err != nil {
			cs.log.Warn("ChatbotService", "Completion failed, using fallback reply", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return constant.FallbackAssistantReply, nil, true
	}

	return result.Reply, result.ToolsUsed, false
}

// publishChatTurn emits the committed turn on the in-process bus for the
// websocket stream. Best effort: the HTTP response already carries the reply.
func (cs *chatbotService) publishChatTurn(userId uuid.UUID, session *entity.ChatSession, reply *entity.ChatMessage, degraded bool) {
	if cs.bus == nil {
		return
	}

	event := dto.ChatTurnEvent{
		UserId:        userId,
		ChatSessionId: session.Id,
		SessionTitle:  session.Title,
		Reply:         reply.Chat,
		ToolsUsed:     reply.ToolsUsed,
		Degraded:      degraded,
		CreatedAt:     reply.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := cs.bus.Publish(cs.chatTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		cs.log.Warn("ChatbotService", "Chat turn publish failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

func sessionToResponse(s *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:           s.Id,
		Title:        s.Title,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
