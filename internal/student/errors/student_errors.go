package studenterrors

import (
	"net/http"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
)

var (
	ErrStudentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Student not found",
		http.StatusNotFound,
	)
	ErrAccessKeyNotFound = apperror.New(
		apperror.CodeNotFound,
		"No student registered under this access key",
		http.StatusNotFound,
	)
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid student ID",
		http.StatusBadRequest,
	)
	ErrInvalidAgeGroup = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown age group",
		http.StatusBadRequest,
	)
	ErrFrozenIsDerived = apperror.New(
		apperror.CodeInvalidState,
		"Frozen status is set by the absence sweep and cannot be assigned directly",
		http.StatusConflict,
	)
	ErrDuplicateAccessKey = apperror.New(
		apperror.CodeConflict,
		"Access key already assigned",
		http.StatusConflict,
	)
	ErrNoFaceMatch = apperror.New(
		apperror.CodeNotFound,
		"No enrolled face matched above the configured threshold",
		http.StatusNotFound,
	)
	ErrInvalidImage = apperror.New(
		apperror.CodeInvalidInput,
		"Image payload is not valid base64",
		http.StatusBadRequest,
	)
)
