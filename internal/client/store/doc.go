// Package store holds the client's persisted state: the session snapshot and
// the welcome flag. Both are kept in the metadata key/value repository and
// notify subscribers after every change.
package store
