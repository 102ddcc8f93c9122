// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error handling helpers,
// extending the standard library errors package with logging
// variants that attribute the error to its caller.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap returns an error wrapping the given error with the given message,
// using fmt.Errorf with the %w verb. It returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CallerInfo returns string information about the caller
// of the function that called CallerInfo.
func CallerInfo() string {
	pc, file, line, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name() + " from " + file + ":" + strconv.Itoa(line)
}

// Log takes the given error and logs it if it is non-nil,
// returning it either way. It adds caller information,
// so it should be called in the function where the error occurred.
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 is a version of [Log] that takes an additional return value,
// passing it through; it is useful for wrapping two-value calls.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Must panics if the given error is non-nil.
// It should only be used on code paths where an error
// is a programming mistake, never on runtime data.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 is a version of [Must] that takes an additional
// return value, passing it through.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Ignore1 ignores an error return value, passing the other value
// through; it documents that ignoring the error is intentional.
func Ignore1[T any](v T, err error) T {
	return v
}
