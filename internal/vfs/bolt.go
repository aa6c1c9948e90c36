package vfs

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BucketFiles holds one key per desktop file.
const BucketFiles = "desktop_files"

var initDB = map[string]func(*bolt.DB) error{
	"initialize desktop file bucket": func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists([]byte(BucketFiles))
			return err
		})
	},
}

// Bolt is a Store persisted in a bbolt database file.
type Bolt struct {
	db    *bolt.DB
	quota int64
}

// OpenBolt opens (creating if needed) the database at path. quota <= 0
// disables the size limit.
func OpenBolt(path string, quota int64) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open file store %s: %w", path, err)
	}
	for name, fn := range initDB {
		if err := fn(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to %s: %w", name, err)
		}
	}
	return &Bolt{db: db, quota: quota}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) List() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		// bbolt iterates keys in byte order.
		return tx.Bucket([]byte(BucketFiles)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Name: BucketFiles, Err: err}
	}
	return names, nil
}

func (b *Bolt) Read(name string) (string, error) {
	var content string
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BucketFiles)).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		content = string(v)
		return nil
	})
	if err != nil {
		return "", &StorageError{Op: "read", Name: name, Err: err}
	}
	return content, nil
}

func (b *Bolt) Write(name, content string) error {
	if err := ValidateName(name); err != nil {
		return &StorageError{Op: "write", Name: name, Err: err}
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketFiles))
		if b.quota > 0 {
			used := entrySize(name, content)
			err := bucket.ForEach(func(k, v []byte) error {
				if string(k) != name {
					used += int64(len(k) + len(v))
				}
				return nil
			})
			if err != nil {
				return err
			}
			if used > b.quota {
				return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used, b.quota)
			}
		}
		return bucket.Put([]byte(name), []byte(content))
	})
	if err != nil {
		return &StorageError{Op: "write", Name: name, Err: err}
	}
	return nil
}

func (b *Bolt) Delete(name string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketFiles)).Delete([]byte(name))
	})
	if err != nil {
		return &StorageError{Op: "delete", Name: name, Err: err}
	}
	return nil
}
