package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/service"
)

type TaskHandler struct {
	svc    *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// currentUserID reads the identity the access guard attached.
func (h *TaskHandler) currentUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID.(string), true
}

// ListTasks handles GET /tasks?keyword=.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	keyword := c.Query("keyword")
	tasks, err := h.svc.List(c.Request.Context(), userID, keyword)
	if err != nil {
		h.logger.Error("ListTasks: failed to fetch tasks",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /tasks. Any owner field in the payload is
// ignored; ownership always comes from the session.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description, req.Priority, req.DueDate)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// UpdateTask handles PUT /tasks/:id with partial patch semantics.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Priority    *string    `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		Status      *string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Status:      req.Status,
	}

	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, patch)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, t)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.writeError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task removed"})
}

// writeError maps service errors onto the API's status contract. An
// ownership mismatch answers 401, same as a missing session.
func (h *TaskHandler) writeError(c *gin.Context, err error, userID string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Task operation failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
