package apperror

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/pkg/respond"
)

// Dispatcher превращает любую ошибку в один ответ клиенту
type Dispatcher struct {
	registry Registry
	mode     Mode
	logger   *zap.Logger
	exit     func(code int)
}

type Option func(*Dispatcher)

// WithExit подменяет os.Exit, который вызывается в ModeTest после непредвиденной ошибки
func WithExit(exit func(code int)) Option {
	return func(d *Dispatcher) {
		d.exit = exit
	}
}

func NewDispatcher(registry Registry, mode Mode, logger *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		mode:     mode,
		logger:   logger,
		exit:     os.Exit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve приводит err к дескриптору. Ошибки с ключом реестра возвращаются как есть,
// для остальных дескриптор собирается из самой ошибки, статус по умолчанию 500.
func (d *Dispatcher) Resolve(err error) Descriptor {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return Descriptor{
			Name:    "Error",
			Message: err.Error(),
			Status:  http.StatusInternalServerError,
		}
	}

	if appErr.Key != "" {
		if desc, ok := d.registry.Lookup(appErr.Key); ok {
			return desc
		}
	}

	desc := Descriptor{
		Name:    appErr.Name,
		Message: appErr.Message,
		Status:  appErr.Status,
		Private: appErr.Private,
		Info:    appErr.Info,
	}
	if desc.Status == 0 {
		desc.Status = http.StatusInternalServerError
	}
	if desc.Message == "" && appErr.Err != nil {
		desc.Message = appErr.Err.Error()
	}
	return desc
}

// Dispatch пишет ровно один ответ на err. Для приватного дескриптора ответ
// обрывается без строки статуса и тела.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, err error) {
	desc := d.Resolve(err)
	unexpected := desc.Unexpected()

	if unexpected {
		d.report(r, err, desc)
	}

	if desc.Private {
		panic(http.ErrAbortHandler)
	}

	if unexpected {
		respond.Error(w, r, http.StatusInternalServerError, d.registry.Default())
		return
	}
	respond.Error(w, r, desc.Status, desc)
}

func (d *Dispatcher) report(r *http.Request, err error, desc Descriptor) {
	if d.mode != ModeDev && d.mode != ModeTest {
		return
	}

	d.logger.Error("unexpected error",
		zap.Error(err),
		zap.String("name", desc.Name),
		zap.Int("status", desc.Status),
		zap.Bool("private", desc.Private),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)

	if d.mode == ModeTest {
		// Баг, всплывший как 5xx, должен уронить прогон тестов
		_ = d.logger.Sync()
		d.exit(1)
	}
}
