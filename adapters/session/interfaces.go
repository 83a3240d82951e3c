package session

import "context"

// IStore is the persistence backend for session data.
type IStore interface {
	Load(ctx context.Context, name string) (map[string]string, error)
	Save(ctx context.Context, name string, data map[string]string) error
}

// ISession is a lazily-loaded key/value session bound to one request.
type ISession interface {
	Load() error
	Get(key string) string
	Set(key, value string)
	Delete(key string)
	Clear()
	Save() error
}
