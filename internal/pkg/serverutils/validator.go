package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and folds all violations into one
// 400-level error message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	ok := false
	if ve, isVE := err.(validator.ValidationErrors); isVE {
		validationErrors = ve
		ok = true
	}
	if !ok {
		return NewBadRequest("invalid request")
	}

	messages := make([]string, len(validationErrors))
	for i, fe := range validationErrors {
		messages[i] = fmt.Sprintf("field %s failed on %s", fe.Field(), fe.Tag())
	}
	return NewBadRequest(strings.Join(messages, "; "))
}
