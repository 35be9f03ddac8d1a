package scaffold

import "github.com/schemagen/schemagen/pkg/phase"

// renderTypesDecl renders src/types.go: the request-id type declaration
// spec.md §6 names as part of the scaffold's top-level output. The
// teacher's TypeScript target emits this as an ambient .d.ts declaration;
// the Go target carries the same concept as a plain exported type, since
// Go has no separate declaration-file convention.
func (e *Emitter) renderTypesDecl(ctx *phase.Context) string {
	return `package src

// RequestMeta is the request-scoped metadata every handler can read off
// a context built by the RequestID middleware (gen/reqctx.RequestID).
type RequestMeta struct {
	RequestID string
}
`
}
