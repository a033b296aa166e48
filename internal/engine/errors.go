package engine

import "fmt"

// NotFoundError indicates a habit or record does not exist (or is soft
// deleted).
type NotFoundError struct {
	Kind string
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// DependencyLockedError is returned when logging a habit whose prerequisite
// habit has not been completed today.
type DependencyLockedError struct {
	HabitKey  string
	DependsOn string
}

func (e DependencyLockedError) Error() string {
	return fmt.Sprintf("habit %q is locked until %q is complete today", e.HabitKey, e.DependsOn)
}

// FrozenError is returned when an operation would change a frozen habit's
// goal.
type FrozenError struct {
	HabitKey string
}

func (e FrozenError) Error() string {
	return fmt.Sprintf("habit %q has growth paused", e.HabitKey)
}
