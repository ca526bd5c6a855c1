package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/response"
)

// renderError writes err with the status of its kind. Internal causes are
// logged, never returned.
func renderError(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, kind.HTTPStatus(), apperror.PublicMessage(err), gin.H{"code": kind})
}
