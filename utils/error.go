package utils

import (
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"status": statusCode,
		"title":  title,
		"detail": detail,
	})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(
		iris.StatusInternalServerError,
		"Internal Server Error",
		"An unexpected error occurred.", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(
		iris.StatusNotFound,
		"Not Found",
		"The requested resource could not be found.", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(
		iris.StatusForbidden,
		"Forbidden",
		"You do not have permission to perform this action.", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(
		iris.StatusConflict,
		"Conflict",
		"Email already registered.", ctx)
}

// CreateInvalidTransition reports a booking status change the lifecycle
// table does not allow (or one that lost the compare-and-swap race).
func CreateInvalidTransition(ctx iris.Context, detail string) {
	CreateError(
		iris.StatusUnprocessableEntity,
		"Invalid State Transition",
		detail, ctx)
}

// CreateUpstreamFailure reports a failed call to an external collaborator
// (payment processor, mail sender) that the caller must know about.
func CreateUpstreamFailure(ctx iris.Context, detail string) {
	CreateError(
		iris.StatusBadGateway,
		"Upstream Failure",
		detail, ctx)
}
