package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/store"
	"github.com/fekuna/omnipos-catalog-service/internal/store/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgNotFound  = "store.not_found"
	MsgNameTaken = "store.name.taken"

	nameConstraint = "stores_name_key"
)

type storeUseCase struct {
	repo   store.Repository
	logger logger.ZapLogger
}

func NewStoreUseCase(repo store.Repository, log logger.ZapLogger) store.UseCase {
	return &storeUseCase{repo: repo, logger: log}
}

func (uc *storeUseCase) CreateStore(ctx context.Context, input *dto.CreateStoreInput) (*model.Store, error) {
	now := time.Now()
	s := &model.Store{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    input.UserID,
		Name:      input.Name,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, mapConflict(err)
	}
	uc.logger.Info("store created", zap.String("store_id", s.ID), zap.String("user_id", s.UserID))
	return s, nil
}

func (uc *storeUseCase) GetStore(ctx context.Context, id string) (*model.Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	return s, nil
}

func (uc *storeUseCase) ListStores(ctx context.Context, userID string) ([]model.Store, error) {
	return uc.repo.FindByUser(ctx, userID)
}

func (uc *storeUseCase) UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error) {
	s, err := uc.owned(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	s.Name = input.Name
	s.Logo = input.Logo
	s.Description = input.Description
	s.Address = input.Address
	s.Phone = input.Phone
	s.Email = input.Email
	s.Facebook = input.Facebook
	s.Instagram = input.Instagram
	s.Twitter = input.Twitter
	s.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, mapConflict(err)
	}
	return s, nil
}

func (uc *storeUseCase) DeleteStore(ctx context.Context, id, userID string) error {
	if _, err := uc.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	uc.logger.Info("store deleted", zap.String("store_id", id), zap.String("user_id", userID))
	return nil
}

func (uc *storeUseCase) Owns(ctx context.Context, storeID, userID string) (bool, error) {
	if storeID == "" || userID == "" {
		return false, nil
	}
	if _, err := uuid.Parse(storeID); err != nil {
		return false, nil
	}
	return uc.repo.Exists(ctx, storeID, userID)
}

func (uc *storeUseCase) FirstStoreID(ctx context.Context, userID string) (string, error) {
	stores, err := uc.repo.FindByUser(ctx, userID)
	if err != nil || len(stores) == 0 {
		return "", err
	}
	return stores[0].ID, nil
}

// owned loads a store of userID; stores of other users read as missing.
func (uc *storeUseCase) owned(ctx context.Context, id, userID string) (*model.Store, error) {
	s, err := uc.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, apperror.Forbidden()
	}
	return s, nil
}

func mapConflict(err error) error {
	if name, ok := apperror.UniqueViolation(err); ok && name == nameConstraint {
		return apperror.Conflict("name", MsgNameTaken)
	}
	return err
}
