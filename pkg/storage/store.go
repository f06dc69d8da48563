package storage

import "context"

// Object describes a stored file. Remote objects are reachable at URL; local ones by Key.
type Object struct {
	Key    string
	URL    string
	Remote bool
}

// Location is the value persisted for the object: its URL when remote, its key otherwise.
func (o Object) Location() string {
	if o.Remote {
		return o.URL
	}
	return o.Key
}

// Store writes files to a backend.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*Object, error)
}
