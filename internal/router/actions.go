// Package router implements the message pipeline: casual replies,
// keyword matching, fuzzy suggestions, and the AI fallback.
package router

// Action is one outbound step the transport layer must execute, in order.
type Action interface {
	isAction()
}

// SendText delivers a text message.
type SendText struct {
	Text     string
	Markdown bool
}

func (SendText) isAction() {}

// SendDocument delivers the document behind a share link. The transport
// layer downloads the file and reports a per-file apology on failure.
type SendDocument struct {
	Keyword string
	FileURL string
}

func (SendDocument) isAction() {}
