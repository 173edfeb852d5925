package messagerepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"modai/services/message-api/internal/domain/message"
	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/infrastructure/database/dbschema"
	"modai/services/message-api/internal/infrastructure/database/transaction"
	"modai/services/message-api/internal/utils/functional"
	"modai/services/message-api/internal/utils/platformerrors"
)

type MessageGormRepository struct {
	db *transaction.Database
}

var _ message.Repository = (*MessageGormRepository)(nil)

func NewMessageGormRepository(db *transaction.Database) message.Repository {
	return &MessageGormRepository{db}
}

// Create implements message.Repository.
func (repo *MessageGormRepository) Create(ctx context.Context, msg *message.Message) error {
	model := dbschema.NewSchemaMessage(msg)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"message already exists", err, "0f7a3d9c-2e5b-4a8f-b1d6-9c4e7a0f3d52")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create message", err, "3e8c5a1f-7d0b-4e9c-a2f4-6b1d8e5a3c97")
	}
	return nil
}

// FindByID implements message.Repository.
func (repo *MessageGormRepository) FindByID(ctx context.Context, id string) (*message.Message, error) {
	var model dbschema.Message
	err := repo.db.GetTx(ctx).WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"message not found", err, "b4d1f8e6-0c3a-4b7d-9e2f-5a8c1d4b7e09")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find message", err, "7c2e9b5d-4f8a-4c1e-b0d3-8e6a2c9f5b41")
	}
	return model.EtoD(), nil
}

// FindByConversationID implements message.Repository. Messages come back in
// chronological order so transcripts replay correctly.
func (repo *MessageGormRepository) FindByConversationID(ctx context.Context, conversationID string, pagination *query.Pagination) ([]*message.Message, error) {
	sql := repo.db.GetTx(ctx).WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC")
	if pagination != nil {
		sql = sql.Limit(pagination.Limit).Offset(pagination.Offset)
	}

	var rows []*dbschema.Message
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find messages", err, "d5a8f2c0-9e3b-4d6a-8c1f-7b4e0d2a5f93")
	}

	return functional.Map(rows, func(item *dbschema.Message) *message.Message {
		return item.EtoD()
	}), nil
}

// CountByConversationID implements message.Repository.
func (repo *MessageGormRepository) CountByConversationID(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count messages", err, "9b6d3e8a-1f4c-4a0d-b7e2-0c5f8a3d6b19")
	}
	return count, nil
}

// Update implements message.Repository. The classifier consumer uses this
// to write tier, categories and safety flags back onto stored messages.
func (repo *MessageGormRepository) Update(ctx context.Context, msg *message.Message) error {
	model := dbschema.NewSchemaMessage(msg)
	result := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Message{}).
		Where("id = ?", msg.ID).
		Select("Content", "TopicTier", "TopicCategories", "SafetyFlags", "Metadata").
		Updates(model)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update message", result.Error, "2a7f4c9e-8b1d-4e5a-9f0c-3d6b8e1a4c75")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"message not found", nil, "8e0b5d2f-3a7c-4b9e-a1d4-6f9c2e5b8d30")
	}
	return nil
}

// Delete implements message.Repository.
func (repo *MessageGormRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := repo.db.GetTx(ctx).WithContext(ctx).Where("id = ?", id).Delete(&dbschema.Message{})
	if result.Error != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete message", result.Error, "6d9a2f5b-0e4c-4d8a-b3f7-1c8e5a0d2f64")
	}
	return result.RowsAffected > 0, nil
}

// DeleteByConversationID implements message.Repository.
func (repo *MessageGormRepository) DeleteByConversationID(ctx context.Context, conversationID string) (int64, error) {
	result := repo.db.GetTx(ctx).WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&dbschema.Message{})
	if result.Error != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete messages", result.Error, "4f1c8b6e-5d9a-4f2c-8a0e-7b3d9f6c1a58")
	}
	return result.RowsAffected, nil
}
