package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
	"github.com/caffeineduck/codehub/notice"
	"github.com/caffeineduck/codehub/share"
)

var (
	errRunNotFound   = errors.New("run not found")
	errRateLimited   = errors.New("too many requests")
	errBadRequest    = errors.New("invalid request")
	errEmptyDownload = fmt.Errorf("please enter some code to download: %w", executor.ErrEmptyCode)
)

type errorResponse struct {
	Error  string         `json:"error"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError is the single place errors become HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	n := noticeFor(err)
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error(), Notice: &n})
}

func statusFor(err error) int {
	var verr *executor.ValidationError
	switch {
	case errors.Is(err, errRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, executor.ErrNotWaiting), errors.Is(err, executor.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, share.ErrTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, executor.ErrEmptyCode),
		errors.Is(err, executor.ErrBlankInput),
		errors.Is(err, executor.ErrInputExhausted),
		errors.Is(err, errBadRequest),
		errors.Is(err, language.ErrUnknown),
		errors.Is(err, share.ErrNotShared),
		errors.Is(err, share.ErrMalformed),
		errors.Is(err, share.ErrUnknownLanguage),
		errors.As(err, &verr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func noticeFor(err error) notice.Notice {
	var verr *executor.ValidationError
	switch {
	case errors.Is(err, errEmptyDownload):
		return notice.EmptyDownload()
	case errors.Is(err, executor.ErrEmptyCode):
		return notice.EmptyRun()
	case errors.As(err, &verr):
		return notice.Error(verr.Message)
	case errors.Is(err, share.ErrNotShared),
		errors.Is(err, share.ErrMalformed),
		errors.Is(err, share.ErrUnknownLanguage),
		errors.Is(err, share.ErrTooLong):
		return notice.Error("Could not load shared code")
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, executor.ErrInputExhausted):
		return notice.ExecutionFailed()
	case errors.Is(err, executor.ErrBlankInput):
		return notice.Error("Please enter a value")
	case errors.Is(err, errRateLimited):
		return notice.Error("Too many requests, slow down")
	}
	return notice.Error(err.Error())
}
