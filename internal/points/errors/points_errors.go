package pointserrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
)

// CodeDuplicateCategory marks the recoverable duplicate-per-day failure so
// clients can tell it apart from other conflicts.
const CodeDuplicateCategory = "DUPLICATE_CATEGORY"

var (
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Ledger entry not found",
		http.StatusNotFound,
	)
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid student ID",
		http.StatusBadRequest,
	)
	ErrMissingCategory = apperror.New(
		apperror.CodeInvalidInput,
		"Category is required",
		http.StatusBadRequest,
	)
)

// DuplicateCategory builds the duplicate-per-day failure. It is an actionable
// user message, not a system fault, and callers never log it as an error.
func DuplicateCategory(category string) *apperror.AppError {
	return apperror.New(
		CodeDuplicateCategory,
		fmt.Sprintf("Points already awarded for %s today.", category),
		http.StatusConflict,
	)
}

// IsDuplicateCategory reports whether err is the duplicate-per-day failure.
func IsDuplicateCategory(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == CodeDuplicateCategory
}
