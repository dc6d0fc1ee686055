// Package store keeps the persistent command history in a bbolt database.
//
// The history is only persisted when a database is configured; by default the
// line session keeps its history in memory.
package store

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"src.wl.sh/pkg/logutil"
)

var logger = logutil.GetLogger("store")

// ErrNoMatchingCmd is returned when a query for a command finds no result.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Cmd is an entry in the command history.
type Cmd struct {
	Text string
	Seq  int
}

// Store is the persistent storage backend. It is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

const bucketCmd = "cmd"

// Time to wait for other processes holding the database to release it.
var openTimeout = time.Second

// Open opens the database at the given path, creating it if necessary.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open history database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history database %s: %w", path, err)
	}
	logger.Infof("opened %s", path)
	return &Store{db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
