// Package api exposes the HTTP surface: account signup and login plus
// owner-scoped task CRUD behind bearer-token authentication.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"tasktrack-api/domain"
)

// requestBodyMaxSize caps JSON request bodies before decoding.
const requestBodyMaxSize = 64 << 10

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, creds Credentials, logger *log.Logger) {
	e.POST("/signup", signup(store, creds))
	e.POST("/login", login(store, creds))

	tasks := e.Group("/tasks", RequireAccount(store, creds))
	tasks.POST("", createTask(store))
	tasks.GET("", listTasks(store, logger))
	tasks.PUT("/:id", updateTask(store))
	tasks.DELETE("/:id", deleteTask(store))

	e.GET("/healthz", healthz())
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type taskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func signup(store Storage, creds Credentials) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid body"})
		}
		if req.Email == "" || req.Password == "" {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "email and password are required"})
		}

		digest, err := creds.HashPassword(req.Password)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		if _, err := store.CreateAccount(c.Request().Context(), req.Email, digest); err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				return c.JSON(http.StatusBadRequest, messageResponse{Message: "Email already registered"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return c.JSON(http.StatusOK, messageResponse{Message: "User created"})
	}
}

func login(store Storage, creds Credentials) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid body"})
		}

		account, err := store.AccountByEmail(c.Request().Context(), req.Email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}
		// Hide whether the email or the password was wrong.
		if err != nil || !creds.CheckPassword(req.Password, account.PasswordHash) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		}

		token, err := creds.IssueToken(account.Email)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

func createTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, ok := accountFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "token verification failed"})
		}

		var req taskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid body"})
		}

		task, err := store.CreateTask(c.Request().Context(), account.ID, req.Description, req.Completed)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return c.JSON(http.StatusOK, task)
	}
}

func listTasks(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newTaskListMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		account, ok := accountFromContext(c)
		if !ok {
			metrics.SetErrorStage("auth")
			err = c.JSON(http.StatusUnauthorized, messageResponse{Message: "token verification failed"})
			return err
		}

		fetchStart := time.Now()
		tasks, fetchErr := store.TasksByOwner(c.Request().Context(), account.ID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
			return err
		}
		metrics.SetTasksReturned(len(tasks))

		if tasks == nil {
			tasks = []domain.Task{}
		}
		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, tasks)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func updateTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, ok := accountFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "token verification failed"})
		}

		taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "Task not found"})
		}

		var req taskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid body"})
		}

		task, err := store.UpdateTask(c.Request().Context(), account.ID, taskID, req.Description, req.Completed)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.JSON(http.StatusNotFound, messageResponse{Message: "Task not found"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, ok := accountFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "token verification failed"})
		}

		taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "Task not found"})
		}

		if err := store.DeleteTask(c.Request().Context(), account.ID, taskID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.JSON(http.StatusNotFound, messageResponse{Message: "Task not found"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted"})
	}
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}
