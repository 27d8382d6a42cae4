package analytics

import (
	"time"

	"sheetlens/internal/errors"
)

// Result is the uniform return contract of every engine operation. Output
// is set only on success; ErrorTrace only on failure.
type Result[T any] struct {
	ErrorCode  errors.Code `json:"error_code"`
	StatusMsg  string      `json:"status_msg"`
	ErrorTrace string      `json:"error_trace"`
	Output     T           `json:"output"`
}

// OK reports whether the operation succeeded
func (r Result[T]) OK() bool {
	return r.ErrorCode == errors.CodeOK
}

// Err rebuilds the failure as an error, nil on success
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &errors.AppError{Code: r.ErrorCode, Message: r.StatusMsg}
}

// Fail builds a failure envelope for errors raised outside the engine, such
// as a front end rejecting an upload before it reaches Load
func Fail[T any](code errors.Code, message string, err error) Result[T] {
	if err == nil {
		return failure[T](errors.New(code, message))
	}
	return failure[T](errors.Wrap(code, err, message))
}

func success[T any](output T, msg string) Result[T] {
	return Result[T]{ErrorCode: errors.CodeOK, StatusMsg: msg, Output: output}
}

func failure[T any](err *errors.AppError) Result[T] {
	return Result[T]{
		ErrorCode:  err.Code,
		StatusMsg:  err.Message,
		ErrorTrace: errors.Trace(err),
	}
}

// run executes one operation body and turns any returned error or panic into
// a failure envelope carrying code and failMsg. Errors that already carry a
// code keep it.
func run[T any](e *Engine, op string, code errors.Code, failMsg string, body func() (T, string, error)) (res Result[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			appErr := errors.FromPanic(code, failMsg, r)
			e.logger.Error("[Engine] %s panicked: %v", op, r)
			res = failure[T](appErr)
		}
		if e.observer != nil {
			e.observer.ObserveOperation(op, res.ErrorCode, time.Since(start))
		}
	}()

	output, msg, err := body()
	if err != nil {
		var appErr *errors.AppError
		if !errors.As(err, &appErr) {
			appErr = errors.Wrap(code, err, failMsg)
		}
		e.logger.Error("[Engine] %s failed (%s): %v", op, appErr.Code, err)
		return failure[T](appErr)
	}
	e.logger.Debug("[Engine] %s completed in %s", op, time.Since(start))
	return success(output, msg)
}
