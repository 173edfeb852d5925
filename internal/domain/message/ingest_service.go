package message

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/usage"
	"modai/services/message-api/internal/infrastructure/logger"
	"modai/services/message-api/internal/infrastructure/metrics"
	"modai/services/message-api/internal/infrastructure/observability"
	"modai/services/message-api/internal/utils/platformerrors"
)

const (
	queueLabelClassification = "classification"
	queueLabelUsage          = "usage"

	unknownProvider = "unknown"
)

// IngestService runs the message ingestion pipeline: guard the daily limit,
// persist the message, bump the conversation counters, then fan out queue
// work. Persistence failures abort the request; everything after a
// successful persist is best effort and only logged.
type IngestService struct {
	convRepo        conversation.Repository
	msgRepo         Repository
	guard           usage.LimitGuard
	classifier      usage.ClassificationPublisher
	usagePublisher  usage.UsagePublisher
	limitTimeout    time.Duration
	dispatchTimeout time.Duration
}

func NewIngestService(
	convRepo conversation.Repository,
	msgRepo Repository,
	guard usage.LimitGuard,
	classifier usage.ClassificationPublisher,
	usagePublisher usage.UsagePublisher,
	limitTimeout time.Duration,
	dispatchTimeout time.Duration,
) *IngestService {
	return &IngestService{
		convRepo:        convRepo,
		msgRepo:         msgRepo,
		guard:           guard,
		classifier:      classifier,
		usagePublisher:  usagePublisher,
		limitTimeout:    limitTimeout,
		dispatchTimeout: dispatchTimeout,
	}
}

// IngestInput carries one incoming message. The classification seed fields
// come from an upstream classifier pass; the token fields arrive only on
// assistant messages.
type IngestInput struct {
	ConversationID  string
	Role            string
	Content         string
	TopicTier       *int
	TopicCategories []string

	Provider     *string
	Model        *string
	InputTokens  *int64
	OutputTokens *int64
	TotalTokens  *int64
	CostUSD      *float64
}

// IngestMessage executes the pipeline for one message. The returned message
// is the persisted record; side effect failures never surface to the caller.
func (s *IngestService) IngestMessage(ctx context.Context, input IngestInput) (*Message, error) {
	log := logger.GetLogger()

	ctx, span := observability.StartSpan(ctx, "message-api", "IngestService.IngestMessage")
	defer span.End()
	observability.AddSpanAttributes(ctx,
		attribute.String("conversation.id", input.ConversationID),
		attribute.String("message.role", input.Role),
	)

	if !ValidateRole(input.Role) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("invalid role: %s", input.Role), nil, "7d2e9f4a-1b8c-4d3e-a5f6-0c9b2e7d4a18")
	}
	role := Role(input.Role)

	conv, err := s.convRepo.FindByID(ctx, input.ConversationID)
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation not found")
	}
	if !conv.CanAddMessages() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInvalidState,
			fmt.Sprintf("conversation %s does not accept messages in status %s", conv.ID, conv.Status),
			nil, "3a8f1c6d-9e2b-4a7f-b0d4-5c1e8f3a6b92")
	}

	// Only teen-authored messages count against the daily budget.
	if role == RoleUser {
		if err := s.enforceDailyLimit(ctx, conv.TeenID); err != nil {
			return nil, err
		}
	}

	var tier *TopicTier
	if input.TopicTier != nil {
		tier = TierFromInt(*input.TopicTier)
		if tier == nil {
			log.Warn().
				Int("topic_tier", *input.TopicTier).
				Str("conversation_id", conv.ID).
				Msg("topic tier out of range, storing message unclassified")
		}
	}

	msg, err := New(conv.ID, role, input.Content, tier, input.TopicCategories)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid message", err, "b5d0a3f8-6c1e-4e9b-8a2d-7f4c0b9e1d36")
	}

	// A client disconnect must not abort persistence once validation passed.
	storeCtx := context.WithoutCancel(ctx)

	if err := s.msgRepo.Create(storeCtx, msg); err != nil {
		observability.RecordError(ctx, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist message")
	}
	metrics.RecordMessageCreated(string(role))
	observability.AddSpanAttributes(ctx, attribute.String("message.id", msg.ID))

	conv.AddMessage()
	if err := s.convRepo.Update(storeCtx, conv); err != nil {
		// The message is already durable; losing one counter bump is
		// acceptable, losing the message is not.
		log.Error().Err(err).
			Str("conversation_id", conv.ID).
			Str("message_id", msg.ID).
			Msg("failed to update conversation after message persist")
	}

	observability.AddSpanEvent(ctx, "dispatching_side_effects")
	s.dispatchSideEffects(storeCtx, conv, msg, input)

	return msg, nil
}

// enforceDailyLimit asks the usage service whether the teen may still send
// messages today. Guard infrastructure failures fail open.
func (s *IngestService) enforceDailyLimit(ctx context.Context, teenID string) error {
	log := logger.GetLogger()

	checkCtx, cancel := context.WithTimeout(ctx, s.limitTimeout)
	defer cancel()

	check, err := s.guard.CheckDailyLimit(checkCtx, teenID)
	if err != nil {
		metrics.LimitCheckFailuresTotal.Inc()
		log.Warn().Err(err).
			Str("teen_id", teenID).
			Msg("daily limit check failed, allowing message")
		return nil
	}
	if !check.Allowed {
		metrics.LimitRejectionsTotal.Inc()
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeRateLimited,
			fmt.Sprintf("daily message limit reached (%d/%d)", check.MessagesSent, check.MessagesLimit),
			nil, "f1c8b4d7-2a9e-4f6c-8d3b-0e5a7c2f9b41")
	}
	return nil
}

// dispatchSideEffects enqueues post-persist work. ctx is already detached
// from the request; a bounded timeout keeps slow brokers from holding the
// response.
func (s *IngestService) dispatchSideEffects(ctx context.Context, conv *conversation.Conversation, msg *Message, input IngestInput) {
	log := logger.GetLogger()

	dispatchCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	switch {
	case msg.IsUserMessage():
		job := usage.ClassificationJob{
			MessageID:      msg.ID,
			ConversationID: conv.ID,
			TeenID:         conv.TeenID,
			Content:        msg.Content,
			Metadata:       msg.Metadata,
		}
		if err := s.classifier.PublishClassificationJob(dispatchCtx, job); err != nil {
			metrics.RecordDispatchFailure(queueLabelClassification)
			log.Error().Err(err).
				Str("message_id", msg.ID).
				Msg("failed to enqueue classification job")
		}

		record := usage.MessageRecord{
			UserID:         conv.TeenID,
			ConversationID: conv.ID,
			TopicTier:      input.TopicTier,
		}
		if len(input.TopicCategories) > 0 {
			record.TopicCategory = &input.TopicCategories[0]
		}
		event := usage.Event{EventType: usage.EventTypeMessageRecord, Payload: record}
		if err := s.usagePublisher.PublishUsageEvent(dispatchCtx, event); err != nil {
			metrics.RecordDispatchFailure(queueLabelUsage)
			log.Error().Err(err).
				Str("message_id", msg.ID).
				Msg("failed to enqueue message record")
		}

	case msg.IsAssistantMessage() && input.TotalTokens != nil && *input.TotalTokens > 0:
		event := usage.Event{EventType: usage.EventTypeTokenUsage, Payload: s.buildTokenUsage(conv, input)}
		if err := s.usagePublisher.PublishUsageEvent(dispatchCtx, event); err != nil {
			metrics.RecordDispatchFailure(queueLabelUsage)
			log.Error().Err(err).
				Str("message_id", msg.ID).
				Msg("failed to enqueue token usage")
		}
	}
}

// buildTokenUsage assembles a token usage payload, estimating the cost from
// the pricing table when the caller did not supply one.
func (s *IngestService) buildTokenUsage(conv *conversation.Conversation, input IngestInput) usage.TokenUsage {
	provider := unknownProvider
	if input.Provider != nil && *input.Provider != "" {
		provider = *input.Provider
	}
	model := unknownProvider
	if input.Model != nil && *input.Model != "" {
		model = *input.Model
	}

	var inputTokens, outputTokens int64
	if input.InputTokens != nil {
		inputTokens = *input.InputTokens
	}
	if input.OutputTokens != nil {
		outputTokens = *input.OutputTokens
	}

	cost := input.CostUSD
	if cost == nil {
		estimated, _ := usage.CalculateCost(model, inputTokens, outputTokens).Float64()
		cost = &estimated
	}

	return usage.TokenUsage{
		UserID:       conv.TeenID,
		Provider:     provider,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  *input.TotalTokens,
		CostUSD:      cost,
	}
}
