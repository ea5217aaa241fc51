package service

import (
	"context"
	"time"

	"bi-copilot-be/internal/dto"
	"bi-copilot-be/internal/pkg/apperrors"
	"bi-copilot-be/internal/repository/specification"
	"bi-copilot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetBusinessContext(ctx context.Context, userId uuid.UUID) (*dto.BusinessContext, error)
	UpdateBusinessContext(ctx context.Context, userId uuid.UUID, req *dto.UpdateBusinessContextRequest) (*dto.BusinessContext, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	return &dto.UserProfileResponse{
		Id:           user.Id,
		Email:        user.Email,
		FullName:     user.FullName,
		CompanyName:  user.CompanyName,
		Industry:     user.Industry,
		BusinessType: user.BusinessType,
		CompanySize:  user.CompanySize,
		CreatedAt:    user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	// Partial update: nil fields are left untouched.
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.CompanyName != nil {
		user.CompanyName = req.CompanyName
	}
	if req.Industry != nil {
		user.Industry = req.Industry
	}
	if req.BusinessType != nil {
		user.BusinessType = req.BusinessType
	}
	if req.CompanySize != nil {
		user.CompanySize = req.CompanySize
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userId)
}

// GetBusinessContext builds the transient grounding payload from the stored
// profile. Missing fields simply stay empty.
func (s *userService) GetBusinessContext(ctx context.Context, userId uuid.UUID) (*dto.BusinessContext, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	bc := &dto.BusinessContext{}
	if user.CompanyName != nil {
		bc.Company = *user.CompanyName
	}
	if user.Industry != nil {
		bc.Industry = *user.Industry
	}
	if user.BusinessType != nil {
		bc.BusinessType = *user.BusinessType
	}
	if user.CompanySize != nil {
		bc.CompanySize = *user.CompanySize
	}
	return bc, nil
}

// UpdateBusinessContext is a profile update narrowed to the grounding fields.
func (s *userService) UpdateBusinessContext(ctx context.Context, userId uuid.UUID, req *dto.UpdateBusinessContextRequest) (*dto.BusinessContext, error) {
	_, err := s.UpdateProfile(ctx, userId, &dto.UpdateProfileRequest{
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		BusinessType: req.BusinessType,
		CompanySize:  req.CompanySize,
	})
	if err != nil {
		return nil, err
	}
	return s.GetBusinessContext(ctx, userId)
}
