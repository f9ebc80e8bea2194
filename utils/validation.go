package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// HandleValidationErrors turns a ReadJSON error into a 400 response. When the
// error is a validator.ValidationErrors it reports every violated field so the
// client can fix the request in one round trip.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := make([]iris.Map, 0, len(errs))
		for _, validationErr := range errs {
			validationErrors = append(validationErrors, iris.Map{
				"field":     fieldName(validationErr.Field()),
				"condition": validationErr.Tag(),
				"param":     validationErr.Param(),
			})
		}

		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"status": iris.StatusBadRequest,
			"title":  "Validation Error",
			"errors": validationErrors,
		})
		return
	}

	CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
}

func fieldName(field string) string {
	if field == "" {
		return field
	}
	return fmt.Sprintf("%s%s", strings.ToLower(field[:1]), field[1:])
}
