package utils

import (
	"context"

	"clinicore-service/internal/pkg/constvars"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

func GetSessionUID(ctx context.Context) string {
	if uid, ok := ctx.Value(constvars.CONTEXT_SESSION_UID_KEY).(string); ok {
		return uid
	}
	return ""
}

func GetSessionRole(ctx context.Context) string {
	if role, ok := ctx.Value(constvars.CONTEXT_SESSION_ROLE_KEY).(string); ok {
		return role
	}
	return ""
}
