package followuperrors

import (
	"net/http"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
)

var (
	ErrFollowUpNotFound = apperror.New(
		apperror.CodeNotFound,
		"Follow-up not found",
		http.StatusNotFound,
	)
	ErrInvalidFollowUpID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid follow-up ID",
		http.StatusBadRequest,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeInvalidState,
		"Follow-up is already resolved",
		http.StatusConflict,
	)
)
