package cascade

import "context"

// Update is the choice-list notification emitted after every execution,
// successful or failed, so the UI layer can repaint a control. A failed
// execution publishes a single "Error: ..." choice; the UI never shows a
// silently stale list.
type Update struct {
	Parameter string
	Choices   []string
	Warnings  []string
	Failed    bool
}

// Publisher receives choice-list updates from the controller.
type Publisher interface {
	Publish(ctx context.Context, update Update)
}

// PublisherFunc adapts a plain function to the Publisher interface.
type PublisherFunc func(ctx context.Context, update Update)

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, update Update) {
	f(ctx, update)
}
