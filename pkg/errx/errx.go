package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of its domain
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// ErrorCode is a fully qualified code such as "APPLICATION.NOT_FOUND"
type ErrorCode string

func (c ErrorCode) String() string { return string(c) }

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one domain
type Registry struct {
	prefix string

	mu    sync.RWMutex
	codes map[ErrorCode]definition
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[ErrorCode]definition),
	}
}

// Register adds a code to the registry and returns its qualified form
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) ErrorCode {
	full := ErrorCode(r.prefix + "." + code)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[full] = definition{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New builds an error for a registered code
func (r *Registry) New(code ErrorCode) *Error {
	r.mu.RLock()
	def, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unregistered error code",
		}
	}

	return &Error{
		Code:       code,
		Type:       def.errType,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}

// Error is the structured error returned by services and handlers
type Error struct {
	Code       ErrorCode
	Type       Type
	HTTPStatus int
	Message    string
	Details    map[string]any
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetail attaches a single key/value to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into the error
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause records the underlying error
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// ToHTTPResponse renders the error as a JSON body.
// "error" carries the human message so clients can read it directly.
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"error": e.Message,
		"type":  e.Type,
		"code":  e.Code,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

// Wrap turns an arbitrary error into an *Error of the given type.
// Errors that already are *Error are returned unchanged.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	return &Error{
		Code:       ErrorCode(errType),
		Type:       errType,
		HTTPStatus: statusForType(errType),
		Message:    message,
		Cause:      err,
	}
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, errType Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errType
	}
	return false
}

func statusForType(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
