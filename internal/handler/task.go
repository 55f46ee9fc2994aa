package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
	"github.com/BuzzLyutic/task-tracker-api/internal/auth"
	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
	"github.com/BuzzLyutic/task-tracker-api/pkg/respond"
)

type TaskHandler struct {
	service    *service.TaskService
	dispatcher *apperror.Dispatcher
	validate   *validator.Validate
	logger     *zap.Logger
}

type deleteBatchRequest struct {
	Tasks []string `json:"tasks" validate:"required,min=1,dive,uuid"`
}

func NewTaskHandler(srv *service.TaskService, dispatcher *apperror.Dispatcher, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service:    srv,
		dispatcher: dispatcher,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TaskInput
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	idempKey := r.Header.Get("Idempotency-Key")
	task, err := h.service.Create(r.Context(), req, idempKey)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	caller := service.Caller{UserID: auth.UserID(r.Context())}

	tasks, err := h.service.List(r.Context(), caller, service.ListQuery{
		Status:      q.Get("status"),
		Search:      q.Get("search"),
		CreateLTE:   q.Get("create_lte"),
		CreateGTE:   q.Get("create_gte"),
		CompleteLTE: q.Get("complete_lte"),
		CompleteGTE: q.Get("complete_gte"),
		Sort:        q.Get("sort"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.TaskInput
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Success(w, r)
}

func (h *TaskHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req deleteBatchRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.fail(w, r, apperror.Wrap(apperror.KeyValidationError, err))
		return
	}

	if err := h.service.DeleteBatch(r.Context(), req.Tasks); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Success(w, r)
}

// decode - пустое тело эквивалентно пустому объекту
func (h *TaskHandler) decode(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	h.logger.Debug("failed to decode json", zap.Error(err))
	return apperror.New("invalidJSON", "Request body is not valid JSON", http.StatusBadRequest).
		WithInfo(err.Error())
}

// fail - все ошибки уходят в диспетчер, наружу ничего не пробрасываем
func (h *TaskHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.dispatcher.Dispatch(w, r, err)
}
