package application

import "context"

// ClientInfo identifies the caller of an auth operation for the audit log.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientInfoKey struct{}

func WithClientInfo(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, ci)
}

func clientInfoFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return ci
}
