package middleware

import (
	"context"

	"hrms/internal/domain/employee"
	"hrms/internal/requestctx"
)

type ctxKey int

const ctxKeyUser ctxKey = 1

// GetUser returns the employee record resolved for the authenticated caller.
func GetUser(ctx context.Context) (employee.Employee, bool) {
	user, ok := ctx.Value(ctxKeyUser).(employee.Employee)
	return user, ok
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
