package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/auth/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgEmailTaken         = "auth.email.taken"
	MsgEmailNotRegistered = "auth.email.not_registered"
	MsgWrongPassword      = "auth.password.wrong"

	emailConstraint = "users_email_key"

	SetupPath = "/setup"
)

type authUseCase struct {
	repo   auth.Repository
	stores auth.StoreLocator
	cost   int
	logger logger.ZapLogger
}

func NewAuthUseCase(repo auth.Repository, stores auth.StoreLocator, log logger.ZapLogger) auth.UseCase {
	return &authUseCase{repo: repo, stores: stores, cost: bcrypt.DefaultCost, logger: log}
}

func (uc *authUseCase) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if name, ok := apperror.UniqueViolation(err); ok && name == emailConstraint {
			return nil, apperror.Conflict("email", MsgEmailTaken)
		}
		return nil, err
	}
	uc.logger.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

func (uc *authUseCase) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, string, error) {
	u, err := uc.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", apperror.Field("email", MsgEmailNotRegistered)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", apperror.Field("password", MsgWrongPassword)
	}

	storeID, err := uc.stores.FirstStoreID(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	if storeID == "" {
		return u, SetupPath, nil
	}
	return u, "/dashboard/" + storeID, nil
}

func (uc *authUseCase) Me(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.Unauthorized()
	}
	return u, nil
}
