package pgcursor

import "runtime"

// Finalizers only guard against leaked handles; Close is the release path.

func setFinalizer[T any](obj *T, fn func(*T)) {
	runtime.SetFinalizer(obj, fn)
}

func clearFinalizer[T any](obj *T) {
	runtime.SetFinalizer(obj, nil)
}
