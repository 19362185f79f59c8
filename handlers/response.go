package handlers

import (
	"net/http"
	"strconv"

	"pos-backend/middleware"
	"pos-backend/models"
	"pos-backend/services"
	"pos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func ok(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func created(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, message, data)
}

func fail(c *gin.Context, status int, message string, details []string) {
	body := gin.H{"success": false, "message": message}
	if len(details) > 0 {
		body["errors"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// respondError writes service errors as they are and hides everything else
// behind a 500.
func respondError(c *gin.Context, err error) {
	if svcErr, isSvc := services.AsError(err); isSvc {
		fail(c, svcErr.StatusCode, svcErr.Message, svcErr.Details)
		return
	}
	log.Error().Err(err).
		Str("request_id", c.GetString(middleware.ContextRequestID)).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, "Internal server error", nil)
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		fail(c, http.StatusBadRequest, "Validation failed", utils.ValidationMessages(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		fail(c, http.StatusBadRequest, "Invalid query parameters", utils.ValidationMessages(err))
		return false
	}
	return true
}

// paramID parses a uuid path parameter. notFound is reported for malformed
// ids, which can never match a record.
func paramID(c *gin.Context, name, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, http.StatusNotFound, notFound, nil)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, name+" must be a number", nil)
		return 0, false
	}
	return n, true
}

func currentUser(c *gin.Context) (*models.User, bool) {
	user, found := middleware.CurrentUser(c)
	if !found {
		fail(c, http.StatusUnauthorized, "Authentication required", nil)
		return nil, false
	}
	return user, true
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "Route "+c.Request.RequestURI+" not found", nil)
}
