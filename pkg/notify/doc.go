// Package notify carries short user-facing messages (saved, render failed,
// invalid value) from the session to whoever displays them.
package notify
