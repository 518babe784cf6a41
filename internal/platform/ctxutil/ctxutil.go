package ctxutil

import "context"

type traceDataKey struct{}
type adminDataKey struct{}

// TraceData correlates log lines and responses for one request.
type TraceData struct {
	TraceID   string
	RequestID string
}

// AdminData identifies the operator behind a request, as verified from the
// bearer token.
type AdminData struct {
	Subject string
	Role    string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func WithAdminData(ctx context.Context, ad *AdminData) context.Context {
	return context.WithValue(ctx, adminDataKey{}, ad)
}

func GetAdminData(ctx context.Context) *AdminData {
	if ctx == nil {
		return nil
	}
	if ad, ok := ctx.Value(adminDataKey{}).(*AdminData); ok {
		return ad
	}
	return nil
}
