package providers

import "context"

// MessageSender delivers chat messages to a patient contact number.
type MessageSender interface {
	// SendText sends a plain text message and returns the provider message ID.
	SendText(ctx context.Context, to, body string) (string, error)

	// SendDocument sends a document by link with a caption and display filename.
	SendDocument(ctx context.Context, to, link, caption, filename string) (string, error)
}
