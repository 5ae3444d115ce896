package cacheinfra

import (
	"context"
	"reflect"
)

// validateFetchFn performs validation of the fetchFn parameter to ensure it
// matches the expected signature: func(context.Context) (T, error)
func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	fnType := reflect.TypeOf(fetchFn)

	if fnType.Kind() != reflect.Func {
		return &ConfigError{Field: "fetchFn", Message: "must be a function"}
	}

	if fnType.NumIn() != 1 || fnType.NumOut() != 2 {
		return &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}

	contextType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !fnType.In(0).Implements(contextType) {
		return &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}

	errorType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errorType) {
		return &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}

	return nil
}

// callFetchFn uses reflection to call any function that matches the
// FetchFn[T] signature: func(context.Context) (T, error). fetchFn must be
// pre-validated by validateFetchFn.
func callFetchFn(ctx context.Context, fetchFn any) (any, error) {
	// Direct type assertion for the common case.
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if rv := results[0]; rv.IsValid() && rv.CanInterface() {
		result = rv.Interface()
	}

	var err error
	if ev := results[1]; ev.IsValid() && !ev.IsNil() {
		err = ev.Interface().(error)
	}

	return result, err
}

// fetchFnResultType reports the T in func(context.Context) (T, error).
// Backends that store encoded bytes use it to decode into the caller's
// expected type. fetchFn must be pre-validated.
func fetchFnResultType(fetchFn any) reflect.Type {
	return reflect.TypeOf(fetchFn).Out(0)
}
