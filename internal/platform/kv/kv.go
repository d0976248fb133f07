// Package kv implements the persistence backends behind the entity store.
//
// A Backend presents a uniform get/set contract over one of two
// interchangeable strategies: process memory, or a remote key-addressed
// blob store. Remote failures never propagate: reads degrade to the
// caller-supplied fallback and writes are best effort.
package kv

import "context"

// Backend is the persistence strategy selected once at process start.
type Backend interface {
	// Get returns the value stored under key, or fallback when the key is
	// absent or the backend cannot serve the request.
	Get(ctx context.Context, key string, fallback []byte) []byte

	// Set stores value under key. Failures are logged and counted, never
	// returned.
	Set(ctx context.Context, key string, value []byte)

	// Name identifies the backend in logs and metrics.
	Name() string
}

// Collection keys used by the entity store. Each holds one JSON array.
const (
	UsersKey    = "taskflow:users"
	ProjectsKey = "taskflow:projects"
	TasksKey    = "taskflow:tasks"
)
