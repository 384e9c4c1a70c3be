package student

import (
	"errors"
	"strings"

	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return studenterrors.ErrStudentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_student_access_key" {
			return studenterrors.ErrDuplicateAccessKey
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_student_access_key") {
		return studenterrors.ErrDuplicateAccessKey
	}

	return err
}
