package command

import "context"

type Client interface {
	HandleCommand(ctx context.Context) error
	// StartNotifications forwards asynchronous events to the operator until ctx ends.
	StartNotifications(ctx context.Context)
}
