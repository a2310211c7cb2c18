package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*model.StaffResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  model.StaffResponse `json:"user"`
}

type authService struct {
	staffRepo repository.StaffRepository
}

func NewAuthService(staffRepo repository.StaffRepository) AuthService {
	return &authService{staffRepo: staffRepo}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.staffRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: rotating the version invalidates tokens held elsewhere.
	newVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newVersion
	user.LastSeenAt = &now
	if err := s.staffRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role, newVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.staffRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.staffRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*model.StaffResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.staffRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	return s.staffRepo.UpdateLastSeen(userID)
}
