// Package ctxutil carries request-scoped values used by logging: the trace
// id and the tenant an indexing operation runs for.
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	ctx = ctxutil.SetTenant(ctx, app.String())
package ctxutil
