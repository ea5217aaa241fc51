package serverutils

import (
	"fmt"
	"strings"

	"bi-copilot-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a 400
// level AppError with a readable field list.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := isValidationErrors(err, &fieldErrs); ok {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return apperrors.Validation("invalid request: " + strings.Join(parts, ", "))
		}
		return apperrors.Validation("invalid request")
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}
