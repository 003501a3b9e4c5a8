package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

const policyKey = "policy"

// ErrNotFound is returned when a record does not exist
var ErrNotFound = bolthold.ErrNotFound

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Policy operations

// GetPolicy retrieves the persisted deletion policy
func (db *Database) GetPolicy() (*Policy, error) {
	var policy Policy
	if err := db.store.Get(policyKey, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// SavePolicy stores the deletion policy, replacing any previous value
func (db *Database) SavePolicy(policy Policy) error {
	return db.store.Upsert(policyKey, &policy)
}

// EffectivePolicy returns the persisted policy, or fallback when none was saved
func (db *Database) EffectivePolicy(fallback Policy) (Policy, error) {
	policy, err := db.GetPolicy()
	if errors.Is(err, bolthold.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return *policy, nil
}

// Deletion log operations

// CreateDeletion appends an executed deletion to the log
func (db *Database) CreateDeletion(deletion *Deletion) error {
	if deletion.DeletedAt.IsZero() {
		deletion.DeletedAt = time.Now()
	}
	return db.store.Insert(bolthold.NextSequence(), deletion)
}

// GetDeletions retrieves the deletion log, newest first
func (db *Database) GetDeletions() ([]*Deletion, error) {
	return db.findDeletions(nil)
}

// GetDeletionsByOrigin retrieves logged deletions for one manager, newest first
func (db *Database) GetDeletionsByOrigin(origin Origin) ([]*Deletion, error) {
	return db.findDeletions(bolthold.Where("Origin").Eq(origin))
}

func (db *Database) findDeletions(query *bolthold.Query) ([]*Deletion, error) {
	deletions := []*Deletion{}
	if err := db.store.Find(&deletions, query); err != nil {
		return nil, err
	}

	sort.SliceStable(deletions, func(i, j int) bool {
		return deletions[i].DeletedAt.After(deletions[j].DeletedAt)
	})
	return deletions, nil
}
