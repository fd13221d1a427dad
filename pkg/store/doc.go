// Package store persists session state between runs. A Store holds opaque
// blobs by Key; State is the JSON blob a session writes after every edit.
// The key is always supplied by the caller, DefaultKey only derives the
// conventional "formfill.<scenario>.state" name.
package store
