package context

import (
	"context"
)

type editorSessionKey struct{}

// NewContextWithEditorSession stores the editor session id on ctx.
func NewContextWithEditorSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, editorSessionKey{}, sessionID)
}

func GetEditorSessionFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(editorSessionKey{}).(string)
	return s, ok && s != ""
}
