package apperror

import "net/http"

// Key - символическое имя ошибки в реестре
type Key string

const (
	KeyDefault                 Key = "defaultError"
	KeyUserExists              Key = "userExists"
	KeyJWTNotExists            Key = "jwtNotExists"
	KeyNotAuthorized           Key = "notAuthorized"
	KeyJSONWebTokenError       Key = "jsonWebTokenError"
	KeyTokenExpiredError       Key = "tokenExpiredError"
	KeyUserNotFound            Key = "userNotFound"
	KeyEmailOrPasswordNotFound Key = "emailOrPasswordNotFound"
	KeyEmailDuplicationError   Key = "emailDuplicationError"
	KeyNothingToUpdate         Key = "nothingToUpdate"
	KeyNothingToRemove         Key = "nothingToRemove"
	KeyWrongRefreshToken       Key = "wrongRefreshToken"
	KeyInvalidRefreshToken     Key = "invalidRefreshToken"
	KeyBearerInvalid           Key = "bearerInvalid"
	KeyExpiredToken            Key = "expiredToken"
	KeyInvalidToken            Key = "invalidToken"
	KeyTaskNotFound            Key = "taskNotFound"
	KeyDateValidationError     Key = "dateValidationError"
	KeyWrongPasswordError      Key = "wrongPasswordError"
	KeyValidationError         Key = "validationError"
	KeyRouteNotFound           Key = "routeNotFound"
	KeyMethodNotAllowed        Key = "methodNotAllowed"
)

// Descriptor описывает один вид ошибки в том виде, в котором его видит клиент.
// Private никогда не сериализуется.
type Descriptor struct {
	Name    string      `json:"name"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Private bool        `json:"-"`
	Info    interface{} `json:"info,omitempty"`
}

// Unexpected - дескриптор нельзя показывать клиенту как есть
func (d Descriptor) Unexpected() bool {
	return d.Status == 0 || d.Status >= http.StatusInternalServerError || d.Private
}

var somethingWentWrong = Descriptor{
	Name:    "somethingWentWrong",
	Message: "Something went wrong please try again later",
	Status:  http.StatusInternalServerError,
}

var defaultDescriptors = map[Key]Descriptor{
	KeyDefault:                 somethingWentWrong,
	KeyUserExists:              {Name: "UserExists", Message: "User with email address already exists", Status: http.StatusConflict},
	KeyJWTNotExists:            {Name: "jwtNotExists", Message: "jwt does not exists", Status: http.StatusUnauthorized},
	KeyNotAuthorized:           {Name: "notAuthorized", Message: "Not Authorized", Status: http.StatusUnauthorized},
	KeyJSONWebTokenError:       {Name: "JsonWebTokenError", Message: "jwt is invalid", Status: http.StatusUnauthorized},
	KeyTokenExpiredError:       {Name: "TokenExpiredError", Message: "token is expired", Status: http.StatusUnauthorized},
	KeyUserNotFound:            {Name: "userNotFound", Message: "User is not found", Status: http.StatusNotFound},
	KeyEmailOrPasswordNotFound: {Name: "emailOrPasswordNotFound", Message: "Invalid login or password", Status: http.StatusForbidden},
	KeyEmailDuplicationError:   {Name: "emailDuplicationError", Message: "The email address is already registered", Status: http.StatusBadRequest},
	KeyNothingToUpdate:         {Name: "NothingToUpdate", Message: "There is nothing to update", Status: http.StatusBadRequest},
	KeyNothingToRemove:         {Name: "nothingToRemove", Message: "There are no tasks to remove", Status: http.StatusNotFound},
	KeyWrongRefreshToken:       {Name: "wrongRefreshToken", Message: "Refresh token not found", Status: http.StatusNotFound},
	KeyInvalidRefreshToken:     {Name: "invalidRefreshToken", Message: "Refresh token is invalid", Status: http.StatusUnauthorized},
	KeyBearerInvalid:           {Name: "bearerInvalid", Message: "bearer is invalid", Status: http.StatusUnauthorized},
	KeyExpiredToken:            {Name: "expiredToken", Message: "User activation token is expired", Status: http.StatusBadRequest},
	KeyInvalidToken:            {Name: "invalidToken", Message: "User activation token is invalid", Status: http.StatusBadRequest},
	KeyTaskNotFound:            {Name: "taskNotFound", Message: "Task is not found", Status: http.StatusNotFound},
	KeyDateValidationError:     {Name: "dateValidationError", Message: "Invalid date", Status: http.StatusForbidden},
	KeyWrongPasswordError:      {Name: "wrongPasswordError", Message: "Wrong password", Status: http.StatusBadRequest},
	KeyValidationError:         {Name: "validationError", Message: "Request validation failed", Status: http.StatusBadRequest},
	KeyRouteNotFound:           {Name: "NotFoundError", Message: "Not Found", Status: http.StatusNotFound},
	KeyMethodNotAllowed:        {Name: "MethodNotAllowedError", Message: "Method Not Allowed", Status: http.StatusMethodNotAllowed},
}

// Registry - неизменяемый набор дескрипторов, собирается один раз при старте
type Registry struct {
	descriptors map[Key]Descriptor
}

// NewRegistry копирует переданную карту, поэтому последующие изменения
// исходной карты на реестр не влияют.
func NewRegistry(descriptors map[Key]Descriptor) Registry {
	copied := make(map[Key]Descriptor, len(descriptors))
	for k, d := range descriptors {
		copied[k] = d
	}
	return Registry{descriptors: copied}
}

func DefaultRegistry() Registry {
	return NewRegistry(defaultDescriptors)
}

func (r Registry) Lookup(key Key) (Descriptor, bool) {
	d, ok := r.descriptors[key]
	return d, ok
}

// Default возвращает общий дескриптор, которым подменяются непредвиденные ошибки
func (r Registry) Default() Descriptor {
	if d, ok := r.descriptors[KeyDefault]; ok {
		return d
	}
	return somethingWentWrong
}
