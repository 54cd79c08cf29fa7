// Package httpx holds the gin glue shared by every handler: error
// rendering, request binding and listing parameters.
package httpx

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const LoginPath = "/login"

// Error renders err for the client. Validation and conflict errors carry a
// localized field map, auth failures redirect to the login page and
// anything unknown is logged and reported as a generic failure.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	e := apperror.From(err)
	lang := c.GetHeader("Accept-Language")

	switch e.Kind {
	case apperror.KindUnauthorized, apperror.KindForbidden:
		c.Redirect(http.StatusSeeOther, LoginPath)
		c.Abort()
		return
	case apperror.KindInternal:
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Error(err),
		)
	}

	body := gin.H{"error": i18n.T(lang, e.Message, nil)}
	if len(e.Fields) > 0 {
		fields := make(map[string][]string, len(e.Fields))
		for f, msgs := range e.Fields {
			for _, m := range msgs {
				fields[f] = append(fields[f], i18n.T(lang, m, map[string]any{"Field": f}))
			}
		}
		body["errors"] = fields
	}
	c.AbortWithStatusJSON(Status(e.Kind), body)
}

func Status(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindBadRequest:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// IsNotFound is a shorthand used by handlers that redirect instead of
// rendering a 404.
func IsNotFound(err error) bool {
	var e *apperror.Error
	return errors.As(err, &e) && e.Kind == apperror.KindNotFound
}
