package healthcheck

import "context"

type Notifier interface {
	Notify(ctx context.Context, text string) error
}
