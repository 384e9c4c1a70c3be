package attendanceerrors

import (
	"net/http"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
)

// CodeAlreadyCheckedIn lets clients show "already present" instead of a
// failure banner.
const CodeAlreadyCheckedIn = "ALREADY_CHECKED_IN"

var (
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid student ID",
		http.StatusBadRequest,
	)
	ErrMissingIdentifier = apperror.New(
		apperror.CodeInvalidInput,
		"Either student_id or access_key is required",
		http.StatusBadRequest,
	)
	ErrNoOpenSession = apperror.New(
		apperror.CodeInvalidState,
		"No open attendance session for today",
		http.StatusConflict,
	)
	ErrSweepAlreadyRan = apperror.New(
		apperror.CodeConflict,
		"Absence sweep already ran today",
		http.StatusConflict,
	)
)

// AlreadyCheckedIn carries the original check-in time so the UI can present
// "already present" with the first scan time.
func AlreadyCheckedIn(checkInTime time.Time) *apperror.AppError {
	return apperror.New(
		CodeAlreadyCheckedIn,
		"Student is already checked in today",
		http.StatusConflict,
	).WithDetails(map[string]any{
		"check_in_time": checkInTime.Format(time.RFC3339),
	})
}
