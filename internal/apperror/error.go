package apperror

import (
	"errors"
	"fmt"
)

// Error переносит ошибку по стеку вызовов до диспетчера.
// Если задан Key, дескриптор берется из реестра, остальные поля игнорируются.
type Error struct {
	Key     Key
	Name    string
	Message string
	Status  int
	Private bool
	Info    interface{}
	Err     error
}

// FromKey - ошибка, которая разрешается в дескриптор реестра по ключу
func FromKey(key Key) *Error {
	return &Error{Key: key}
}

// Wrap - то же, что FromKey, но с сохранением исходной причины
func Wrap(key Key, err error) *Error {
	return &Error{Key: key, Err: err}
}

// New создает ошибку вне реестра
func New(name, message string, status int) *Error {
	return &Error{Name: name, Message: message, Status: status}
}

func (e *Error) Error() string {
	var head string
	switch {
	case e.Key != "":
		head = string(e.Key)
	case e.Name != "":
		head = e.Name + ": " + e.Message
	default:
		head = e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", head, e.Err)
	}
	return head
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по ключу реестра
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Key == "" {
		return false
	}
	return e.Key == t.Key
}

// WithInfo возвращает копию с полем info для тела ответа
func (e *Error) WithInfo(info interface{}) *Error {
	cp := *e
	cp.Info = info
	return &cp
}

// IsKey проверяет, есть ли в цепочке err ошибка с ключом key
func IsKey(err error, key Key) bool {
	return errors.Is(err, FromKey(key))
}
