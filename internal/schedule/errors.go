package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Сигнальные ошибки для errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoAvailableMachines = errors.New("no available machines")
	ErrUnknownCriterion    = errors.New("unknown criterion")
	ErrSolverFailure       = errors.New("solver failure")
)

// InvalidInputError — нет допустимых работ для запуска.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// NoAvailableMachinesError не прерывает запуск: результат пуст, ошибка уходит в предупреждения.
type NoAvailableMachinesError struct {
	MachineTypes []int64
}

func (e *NoAvailableMachinesError) Error() string {
	if len(e.MachineTypes) == 0 {
		return "no available machines"
	}
	parts := make([]string, len(e.MachineTypes))
	for i, t := range e.MachineTypes {
		parts[i] = fmt.Sprint(t)
	}
	return "no available machines for machine types [" + strings.Join(parts, ",") + "]"
}

func (e *NoAvailableMachinesError) Is(target error) bool { return target == ErrNoAvailableMachines }

type UnknownCriterionError struct {
	Criterion string
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("unknown scheduling criterion %q", e.Criterion)
}

func (e *UnknownCriterionError) Is(target error) bool { return target == ErrUnknownCriterion }

// SolverFailure оборачивает внутренний сбой локального поиска.
type SolverFailure struct {
	Criterion Criterion
	Cause     error
}

func (e *SolverFailure) Error() string {
	if e.Criterion == "" {
		return fmt.Sprintf("solver failure: %v", e.Cause)
	}
	return fmt.Sprintf("solver failure (%s): %v", e.Criterion, e.Cause)
}

func (e *SolverFailure) Unwrap() error { return e.Cause }

func (e *SolverFailure) Is(target error) bool { return target == ErrSolverFailure }
