package interfaces

// Storage is the durable key/value medium that backs the client session.
//
// Probe reports whether the medium can be used at all; callers treat a probe
// failure as "no storage" rather than as a fatal error.
type Storage interface {
	Probe() error
	Get(key string) (value string, ok bool, err error)
	// Set writes all values in a single update.
	Set(values map[string]string) error
	// Remove deletes all keys in a single update.
	Remove(keys ...string) error
}
