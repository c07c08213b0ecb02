// Package keystore persists the TV pairing key.
//
// The TV issues an opaque client key on first successful registration.
// Subsequent connections present this key to skip interactive pairing, so
// losing it means the person holding the physical remote has to approve the
// pairing dialog again.
//
// The key is stored inside the YAML configuration file alongside the other
// TV settings. Saves are read-modify-write: the whole file is read, the
// client_key field replaced, and the whole file written back, preserving
// unrelated fields.
//
// Usage:
//
//	store := keystore.New("config.yml")
//	key, ok, err := store.Load()
//	...
//	err = store.Save(newKey)
package keystore
