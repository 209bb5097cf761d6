// Package manifest tracks the wrapper scripts pipecron has generated.
//
// The crontab section alone is not a reliable record of generated artifacts:
// users hand-edit their crontab, and the stdout store never writes a section
// at all. The manifest is the authoritative ledger of scripts on disk, so
// uninstall can clean up every script it ever wrote, including orphans whose
// crontab entries are long gone.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const scriptsBucket = "scripts"

// Record describes one generated wrapper script.
type Record struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Interval  string    `json:"interval"`
	WrittenAt time.Time `json:"written_at"`
}

// Manifest provides persistent storage for script records.
type Manifest struct {
	db *bolt.DB
}

// Open opens or creates the manifest database, creating parent directories
// as needed.
func Open(dbPath string) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(scriptsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Manifest{db: db}, nil
}

// Close closes the underlying database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Put stores or replaces the record for a schedule name.
func (m *Manifest) Put(r Record) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(scriptsBucket)).Put([]byte(r.Name), data)
	})
}

// Get retrieves the record for a schedule name.
func (m *Manifest) Get(name string) (Record, bool, error) {
	var r Record
	var found bool
	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(scriptsBucket)).Get([]byte(name))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		found = true
		return nil
	})
	return r, found, err
}

// Delete removes the record for a schedule name. Deleting an absent name
// is not an error.
func (m *Manifest) Delete(name string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(scriptsBucket)).Delete([]byte(name))
	})
}

// All returns every record, in key (name) order.
func (m *Manifest) All() ([]Record, error) {
	var records []Record
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(scriptsBucket)).ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				// Skip corrupt records rather than fail the whole listing.
				return nil
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
