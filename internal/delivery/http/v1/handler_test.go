package v1

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskhub/api/internal/models"
	"github.com/taskhub/api/internal/services"
)

// fakeUserService keeps users in memory and treats the stored
// password as its own hash, so handler tests stay fast.
type fakeUserService struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: make(map[int64]models.User)}
}

func (f *fakeUserService) Create(_ context.Context, params services.CreateUserParams) (*models.PublicUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == params.Email {
			return nil, services.ErrUserAlreadyExists
		}
	}

	f.nextID++
	user := models.User{
		ID:        f.nextID,
		Name:      params.Name,
		Email:     params.Email,
		Password:  params.Password,
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user

	public := user.Public()
	return &public, nil
}

func (f *fakeUserService) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, services.ErrUserNotFound
}

func (f *fakeUserService) GetByID(_ context.Context, id int64) (*models.PublicUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	public := user.Public()
	return &public, nil
}

func (f *fakeUserService) VerifyPassword(password, hash string) (bool, error) {
	return password == hash, nil
}

// fakeTaskService mirrors the store contract, including the
// id-plus-owner filter on every read and write.
type fakeTaskService struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*models.Task
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{tasks: make(map[int64]*models.Task)}
}

func (f *fakeTaskService) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	now := time.Now()
	task := &models.Task{
		ID:          f.nextID,
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[task.ID] = task

	copied := *task
	return &copied, nil
}

func (f *fakeTaskService) GetTasksByUserID(_ context.Context, userID int64) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := make([]*models.Task, 0)
	for _, task := range f.tasks {
		if task.UserID == userID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (f *fakeTaskService) GetTaskByID(_ context.Context, id, userID int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, services.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskService) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if params.Title == nil && params.Description == nil &&
		params.Status == nil && params.Priority == nil && !params.DueDate.Set {
		return nil, services.ErrTaskNotFound
	}

	task, ok := f.tasks[params.ID]
	if !ok || task.UserID != params.UserID {
		return nil, services.ErrTaskNotFound
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DueDate.Set {
		if params.DueDate.Valid {
			dueDate := params.DueDate.Value
			task.DueDate = &dueDate
		} else {
			task.DueDate = nil
		}
	}
	task.UpdatedAt = time.Now()

	copied := *task
	return &copied, nil
}

func (f *fakeTaskService) DeleteTask(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return services.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userService := newFakeUserService()
	taskService := newFakeTaskService()
	authService := services.NewAuthService(
		zerolog.Nop(),
		userService,
		"taskhub-test",
		[]byte("super-secret"),
		time.Hour,
	)
	handler := New(zerolog.Nop(), authService, userService, taskService)

	router := gin.New()
	api := router.Group("/api")

	authRouter := api.Group("/auth")
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.GET("/me", handler.HandleAuthMiddleware, handler.HandleMe)

	taskRouter := api.Group("/tasks", handler.HandleAuthMiddleware)
	taskRouter.GET("", handler.HandleGetTasks)
	taskRouter.POST("", handler.HandleCreateTask)
	taskRouter.GET("/:id", handler.HandleGetTask)
	taskRouter.PUT("/:id", handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", handler.HandleDeleteTask)

	return router
}

func performRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performRequestWithHeader(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authHeader)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
