package controllers

import (
	"errors"
	"net/http"

	"land_records_lending/app"
	"land_records_lending/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// writeError NotFound→404, Conflict→409, 凭据错误→401，其余 500
func (s *Srv) writeError(c *gin.Context, err error) {
	var de *db.Error
	switch {
	case errors.As(err, &de) && de.Kind == db.KindNotFound:
		c.JSON(http.StatusNotFound, app.H{"error": de.Message, "reason": de.Reason})
	case errors.As(err, &de) && de.Kind == db.KindConflict:
		c.JSON(http.StatusConflict, app.H{"error": de.Message, "reason": de.Reason})
	case errors.Is(err, db.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, app.H{"error": err.Error()})
	default:
		s.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	body := app.H{"error": "invalid request: " + err.Error()}
	if details := app.ValidationDetails(err); details != nil {
		body["fields"] = details
	}
	c.JSON(http.StatusBadRequest, body)
}

// uuidParam 路径参数必须是 UUID，否则直接 400
func uuidParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		badRequestMsg(c, "invalid "+name)
		return "", false
	}
	return v, true
}

func badRequestMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, app.H{"error": msg})
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
}
