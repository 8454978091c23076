package api

import (
	"context"

	"frontdesk/pkg/session"
)

type ctxKey string

const ctxKeyOperator ctxKey = "operator"

func WithOperator(ctx context.Context, op *session.Operator) context.Context {
	return context.WithValue(ctx, ctxKeyOperator, op)
}

func OperatorFromContext(ctx context.Context) *session.Operator {
	v := ctx.Value(ctxKeyOperator)
	if v == nil {
		return nil
	}
	op, _ := v.(*session.Operator)
	return op
}
