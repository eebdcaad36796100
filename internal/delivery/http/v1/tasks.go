package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/api/internal/models"
	"github.com/taskhub/api/internal/services"
)

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// parseDueDate accepts a full RFC 3339 timestamp or a bare calendar
// date, which is what the web client sends from its date picker.
func parseDueDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", value)
	}
	return t, nil
}

func parseTaskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidTaskID
	}
	return id, nil
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=100"`
	Description string  `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError("not authenticated"))
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	// The store requires explicit enum values; defaulting is the
	// API layer's job.
	if req.Status == "" {
		req.Status = models.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	params := services.CreateTaskParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Msg("invalid due date")
			abort(c, newBadRequestError(err.Error()))
			return
		}
		params.DueDate = &dueDate
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError("not authenticated"))
		return
	}

	tasks, err := h.tasks.GetTasksByUserID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to fetch tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError("not authenticated"))
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	task, err := h.tasks.GetTaskByID(c, taskID, userID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to fetch task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string                 `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string                 `json:"description"`
	Status      *string                 `json:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority    *string                 `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     models.Optional[string] `json:"due_date"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError("not authenticated"))
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	var req updateTaskRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	if req.DueDate.Set {
		if req.DueDate.Valid {
			dueDate, err := parseDueDate(req.DueDate.Value)
			if err != nil {
				h.logger.Warn().
					Err(err).
					Msg("invalid due date")
				abort(c, newBadRequestError(err.Error()))
				return
			}
			params.DueDate = models.NewOptional(dueDate)
		} else {
			params.DueDate = models.NullOptional[time.Time]()
		}
	}

	task, err := h.tasks.UpdateTask(c, params)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError("not authenticated"))
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	err = h.tasks.DeleteTask(c, taskID, userID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}
