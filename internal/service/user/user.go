package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
	"github.com/vietcharge/vietcharge/internal/service/auth"
)

type Service struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *Service {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &Service{
		hasher:  hasher,
		storage: storage,
	}
}

type CreateUserParams struct {
	Email    string
	Password string
	FullName string
	Role     string
	Status   string
}

func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (models.UserDTO, error) {
	role := params.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return models.UserDTO{}, apperrors.New(apperrors.KindValidation, fmt.Sprintf("invalid role: %q", role), 400)
	}

	status := params.Status
	if status == "" {
		status = models.StatusActive
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return models.UserDTO{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, models.User{
		Email:        params.Email,
		PasswordHash: hash,
		FullName:     params.FullName,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		return models.UserDTO{}, err
	}

	return user.DTO(), nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (models.UserDTO, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return models.UserDTO{}, err
	}

	return user.DTO(), nil
}

func (s *Service) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.UserDTO, int, error) {
	users, total, err := s.storage.User().ListUsers(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]models.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, u.DTO())
	}

	return dtos, total, nil
}

type UpdateUserParams struct {
	Email    *string
	FullName *string
	Password *string
	Role     *string
	Status   *string
}

func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, params UpdateUserParams) (models.UserDTO, error) {
	if params.Role != nil && !models.ValidRole(*params.Role) {
		return models.UserDTO{}, apperrors.New(apperrors.KindValidation, fmt.Sprintf("invalid role: %q", *params.Role), 400)
	}

	repoParams := repository.UpdateUserParams{
		Email:    params.Email,
		FullName: params.FullName,
		Role:     params.Role,
		Status:   params.Status,
	}

	if params.Password != nil {
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return models.UserDTO{}, fmt.Errorf("can't use this as password. Err: %w", err)
		}
		repoParams.PasswordHash = &hash
	}

	user, err := s.storage.User().UpdateUser(ctx, userID, repoParams)
	if err != nil {
		return models.UserDTO{}, err
	}

	return user.DTO(), nil
}

// DeleteUser disables the account instead of removing the row, so the
// audit trail and owned refresh token records survive. A disabled user
// can't log in and existing tokens stop being accepted.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	status := models.StatusDisabled
	_, err := s.storage.User().UpdateUser(ctx, userID, repository.UpdateUserParams{Status: &status})
	return err
}
