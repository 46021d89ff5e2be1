package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// The closed set of outcomes an operation can report. Domain rule
// failures are recovered inside the coordinator and surface as one of
// these; only ErrTransactionFault marks an infrastructure failure the
// caller may retry.
var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrFailedValidation    = errors.New("failed validation")
	ErrNoSuchUser          = errors.New("user does not exist")
	ErrNoPermission        = errors.New("user has no lending permission")
	ErrLendingOverload     = errors.New("user already has the maximum number of active lendings")
	ErrLendingOverdue      = errors.New("user is penalized or has an overdue lending")
	ErrBookAlreadyLent     = errors.New("book is already lent out")
	ErrBookDamaged         = errors.New("book is damaged")
	ErrBookLost            = errors.New("book is lost")
	ErrBookReservedByOther = errors.New("book is reserved by another user")
	ErrNonexistentLending  = errors.New("lending does not exist")
	ErrAlreadyReturned     = errors.New("lending has already been returned")
	ErrTransactionFault    = errors.New("transaction fault")
)

var domainOutcomes = []error{
	ErrRecordNotFound,
	ErrFailedValidation,
	ErrNoSuchUser,
	ErrNoPermission,
	ErrLendingOverload,
	ErrLendingOverdue,
	ErrBookAlreadyLent,
	ErrBookDamaged,
	ErrBookLost,
	ErrBookReservedByOther,
	ErrNonexistentLending,
	ErrAlreadyReturned,
}

func isDomainOutcome(err error) bool {
	for _, outcome := range domainOutcomes {
		if errors.Is(err, outcome) {
			return true
		}
	}
	return false
}

// recoverFault passes domain outcomes through untouched and collapses
// everything else (timeout, deadlock, connectivity) into
// ErrTransactionFault after logging the cause. The unit of work has
// already been rolled back by the time this runs.
func (s *service) recoverFault(operation string, err error) error {
	if isDomainOutcome(err) {
		return err
	}
	s.logger.PrintError(err, map[string]string{"operation": operation})
	return ErrTransactionFault
}

// failedValidation flattens a validation error map into a single error
// that matches ErrFailedValidation under errors.Is.
func failedValidation(errorMap map[string]string) error {
	parts := make([]string, 0, len(errorMap))
	for k, v := range errorMap {
		parts = append(parts, fmt.Sprintf("%q %s", k, v))
	}
	sort.Strings(parts)
	return fmt.Errorf("%w: %s", ErrFailedValidation, strings.Join(parts, "; "))
}
