/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package frame models the browsing contexts the wallet runs in and the
// cross-origin messaging channel between an embedded page and its host.
package frame

import (
	"encoding/json"
	"fmt"
	"sync"
)

// WildcardOrigin matches any recipient origin. The in-process transport
// understands it for completeness but the trust-sensitive paths in this module
// never post to it.
const WildcardOrigin = "*"

// Message is the envelope exchanged between a window and its parent.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`

	// Origin is the origin of the sending window. It is stamped by the
	// transport on delivery and never trusted from the payload itself.
	Origin string `json:"-"`
}

// Window is a browsing context capable of cross-origin messaging.
type Window interface {
	// Origin returns the window's own origin.
	Origin() string

	// Parent returns the embedding window. A top-level window returns itself.
	Parent() Window

	// PostToParent delivers msg to the embedding window, but only if
	// targetOrigin matches the parent's actual origin. The sender origin is
	// stamped on the message by the transport.
	PostToParent(msg *Message, targetOrigin string) error

	// RegisterMsgEvent registers a channel to receive messages delivered to
	// this window.
	RegisterMsgEvent(ch chan<- *Message) error

	// UnregisterMsgEvent removes a previously registered channel.
	UnregisterMsgEvent(ch chan<- *Message) error
}

// Detect reports whether w is embedded inside a foreign browsing context.
// Evaluated once at boot; true iff the window's parent is a different window.
func Detect(w Window) bool {
	if w == nil {
		return false
	}

	parent := w.Parent()

	return parent != nil && parent != Window(w)
}

// InProcWindow is an in-process Window implementation. A window linked with
// Embed forms an embedded page inside its hosting parent.
type InProcWindow struct {
	origin      string
	parent      *InProcWindow
	mu          sync.Mutex
	subscribers []chan<- *Message
}

// NewWindow returns a top-level window with the given origin.
func NewWindow(origin string) *InProcWindow {
	return &InProcWindow{origin: origin}
}

// Embed returns a new window with the given origin embedded inside w.
func (w *InProcWindow) Embed(origin string) *InProcWindow {
	return &InProcWindow{origin: origin, parent: w}
}

// Origin returns the window's origin.
func (w *InProcWindow) Origin() string {
	return w.origin
}

// Parent returns the embedding window, or the window itself when top-level.
func (w *InProcWindow) Parent() Window {
	if w.parent == nil {
		return w
	}

	return w.parent
}

// PostToParent delivers msg to the embedding window.
func (w *InProcWindow) PostToParent(msg *Message, targetOrigin string) error {
	if w.parent == nil {
		return fmt.Errorf("window has no parent")
	}

	return w.PostTo(w.parent, msg, targetOrigin)
}

// PostTo stamps msg with w's origin and delivers it to target's registered
// channels, but only if targetOrigin matches the target's actual origin.
func (w *InProcWindow) PostTo(target *InProcWindow, msg *Message, targetOrigin string) error {
	if targetOrigin == "" {
		return fmt.Errorf("target origin is required")
	}

	if targetOrigin != WildcardOrigin && targetOrigin != target.origin {
		return fmt.Errorf("target origin '%s' does not match recipient origin '%s'", targetOrigin, target.origin)
	}

	msg.Origin = w.origin

	target.deliver(msg)

	return nil
}

func (w *InProcWindow) deliver(msg *Message) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subscribers {
		select {
		case ch <- msg:
		default: // subscriber not draining, drop rather than block the sender
		}
	}
}

// RegisterMsgEvent registers a channel to receive messages delivered to w.
func (w *InProcWindow) RegisterMsgEvent(ch chan<- *Message) error {
	if ch == nil {
		return fmt.Errorf("channel is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.subscribers = append(w.subscribers, ch)

	return nil
}

// UnregisterMsgEvent removes a previously registered channel.
func (w *InProcWindow) UnregisterMsgEvent(ch chan<- *Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, s := range w.subscribers {
		if s == ch {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("channel is not registered")
}

// SubscriberCount returns the number of registered channels.
func (w *InProcWindow) SubscriberCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.subscribers)
}
