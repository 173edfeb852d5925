package conversationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/query"
	"modai/services/message-api/internal/infrastructure/database/dbschema"
	"modai/services/message-api/internal/infrastructure/database/transaction"
	"modai/services/message-api/internal/utils/functional"
	"modai/services/message-api/internal/utils/platformerrors"
)

type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.Repository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) conversation.Repository {
	return &ConversationGormRepository{db}
}

// Create implements conversation.Repository.
func (repo *ConversationGormRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	model := dbschema.NewSchemaConversation(conv)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"conversation already exists", err, "2b6e9d4a-7f1c-4a8e-b5d0-3c9f6a2e8b17")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation", err, "8a3f5c1e-9d2b-4e7a-a6f4-0b8d5e3c9a72")
	}
	return nil
}

// FindByID implements conversation.Repository.
func (repo *ConversationGormRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	var model dbschema.Conversation
	err := repo.db.GetTx(ctx).WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"conversation not found", err, "c7d2e8f4-1a6b-4c9d-8e3f-5b0a7d4c2e91")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation", err, "6e1b8d3a-4f7c-4b2e-9a5d-8c0f3e6b1a47")
	}
	return model.EtoD(), nil
}

// FindByFilter implements conversation.Repository. Results come back newest
// activity first, with never-used conversations last.
func (repo *ConversationGormRepository) FindByFilter(ctx context.Context, filter conversation.Filter, pagination *query.Pagination) ([]*conversation.Conversation, error) {
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx), filter).
		Order("last_message_at DESC NULLS LAST, created_at DESC")
	if pagination != nil {
		sql = sql.Limit(pagination.Limit).Offset(pagination.Offset)
	}

	var rows []*dbschema.Conversation
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find conversations", err, "f4a9c2d7-8e1b-4d6f-a3c5-9b7e0d4f2a86")
	}

	return functional.Map(rows, func(item *dbschema.Conversation) *conversation.Conversation {
		return item.EtoD()
	}), nil
}

// Count implements conversation.Repository.
func (repo *ConversationGormRepository) Count(ctx context.Context, filter conversation.Filter) (int64, error) {
	var count int64
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Conversation{}), filter)
	if err := sql.Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count conversations", err, "1d8e4b7a-3c9f-4e2d-b6a0-7f5c2e9d4b38")
	}
	return count, nil
}

// Update implements conversation.Repository.
func (repo *ConversationGormRepository) Update(ctx context.Context, conv *conversation.Conversation) error {
	model := dbschema.NewSchemaConversation(conv)
	result := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Conversation{}).
		Where("id = ?", conv.ID).
		Select("TeenID", "Title", "Status", "UpdatedAt", "LastMessageAt", "MessageCount", "Metadata").
		Updates(model)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation", result.Error, "5b2d9f6c-0a4e-4c8b-9d7f-3e1a8c5b0d64")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"conversation not found", nil, "a6f3e0b9-5d8c-4f1a-8b2e-4c7d9a0f6e53")
	}
	return nil
}

// Delete implements conversation.Repository. Messages go in the same
// transaction so a crash cannot orphan them.
func (repo *ConversationGormRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := repo.db.WithTransaction(ctx, func(txCtx context.Context) error {
		tx := repo.db.GetTx(txCtx).WithContext(txCtx)

		if err := tx.Where("conversation_id = ?", id).Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&dbschema.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation", err, "e9c4a7d2-6b0f-4d3e-a8c1-5f2b9e7d0a46")
	}
	return deleted, nil
}

func (repo *ConversationGormRepository) applyFilter(sql *gorm.DB, filter conversation.Filter) *gorm.DB {
	if filter.TeenID != "" {
		sql = sql.Where("teen_id = ?", filter.TeenID)
	}
	if filter.Status != nil {
		sql = sql.Where("status = ?", *filter.Status)
	}
	return sql
}
