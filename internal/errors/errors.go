package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code,
// following joined errors too
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*AppError); ok && appErr.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternalError = "INTERNAL_ERROR"

	// Feed codes
	CodeFetchFailed = "FETCH_FAILED"
	CodeParseFailed = "PARSE_FAILED"
	CodeEmptyResult = "EMPTY_RESULT"
	CodeFeedStatus  = "FEED_STATUS"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// FetchFailed marks a transport error or a non-success HTTP status
func FetchFailed(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeFetchFailed,
		Message: fmt.Sprintf("failed to fetch %s", source),
		Cause:   cause,
	}
}

// ParseFailed marks a payload that arrived but could not be decoded
func ParseFailed(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailed,
		Message: fmt.Sprintf("failed to parse %s", source),
		Cause:   cause,
	}
}

// EmptyResult marks a payload that decoded into zero records
func EmptyResult(source string) *AppError {
	return New(CodeEmptyResult, fmt.Sprintf("%s returned no records", source))
}

// FeedStatus marks a proxy response whose status field is not ok
func FeedStatus(status string) *AppError {
	return New(CodeFeedStatus, fmt.Sprintf("feed proxy answered status %q", status))
}

// UserMessage turns an error into the string shown to readers of the site.
// It never exposes the cause chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch GetCode(err) {
	case CodeFetchFailed:
		return "Não foi possível carregar os dados. Verifique sua conexão e tente novamente."
	case CodeParseFailed:
		return "Os dados foram recebidos, mas não puderam ser lidos."
	case CodeEmptyResult:
		return "Nenhum registro foi encontrado na fonte de dados."
	case CodeFeedStatus:
		return "O serviço do blog está indisponível no momento."
	case CodeInvalidInput:
		return "Seleção inválida."
	default:
		return "Ocorreu um erro inesperado."
	}
}
