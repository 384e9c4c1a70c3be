package settingserrors

import (
	"net/http"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
)

var (
	ErrInvalidMatchThreshold = apperror.New(
		apperror.CodeInvalidInput,
		"Match threshold must be between 0.5 and 0.99",
		http.StatusBadRequest,
	)
	ErrInvalidCheckoutTime = apperror.New(
		apperror.CodeInvalidInput,
		"Auto checkout time must be in HH:MM format",
		http.StatusBadRequest,
	)
)
