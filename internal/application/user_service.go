package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/internal/domain/entity"
	repo "github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

type UserService struct {
	Gateway repo.Gateway
	Logger  *logrus.Logger
}

func NewUserService(gw repo.Gateway, logger *logrus.Logger) *UserService {
	return &UserService{Gateway: gw, Logger: logger}
}

// CreateUser stores a new user. Emails are not unique.
func (s *UserService) CreateUser(ctx context.Context, email, name string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, apperror.InvalidArgument("email and name are required")
	}
	if tooLong(email) || tooLong(name) {
		return nil, apperror.InvalidArgument(fmt.Sprintf("email and name must be at most %d characters", entity.MaxTextLength))
	}
	u := &entity.User{Email: email, Name: name}
	if err := s.Gateway.InsertUser(ctx, u); err != nil {
		helpers.LogError(s.Logger, "insert user failed", err, logrus.Fields{"email": email})
		return nil, apperror.Internal("failed to create user", err)
	}
	return u, nil
}
