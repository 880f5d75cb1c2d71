// Package notifications announces finished builds over ntfy.
//
// The ntfy topic comes from the [notifications] config section. With no topic
// configured NewService returns a no-op, so callers publish unconditionally.
package notifications
