package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/internal/application"
	"github.com/oksasatya/event-registration/pkg/response"
	"github.com/oksasatya/event-registration/pkg/validation"
)

type UserHandler struct {
	Users    *application.UserService
	Registry *application.RegistryService
	Logger   *logrus.Logger
}

func NewUserHandler(users *application.UserService, registry *application.RegistryService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Registry: registry, Logger: logger}
}

type createUserRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Name  string `json:"name" binding:"required,max=255"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.CreateUser(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"userId": u.ID}, "User created successfully.", nil)
}

func (h *UserHandler) CancelRegistration(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	userID, eventID := int64(req.UserID), int64(req.EventID)
	if err := h.Registry.Cancel(c.Request.Context(), userID, eventID); err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"userId": userID, "eventId": eventID}, "Registration cancelled successfully.", nil)
}
