package db

import "errors"

// Both stores return these, wrapped, so callers can branch with errors.Is
var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrDuplicateEmployee       = errors.New("employee name or email already exists")
	ErrDuplicatePerformanceLog = errors.New("performance log already exists for this month")
)
