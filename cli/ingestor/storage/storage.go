package storage

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage/store/mysql"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage/store/nats"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage/store/postgresql"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage/store/rabbitmq"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage/store/redis"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage/store/tarantool_queue"
)

var ErrInvalidStorage = errors.New("storage not found")
var ErrUnknownStorage = errors.New("storage isn't supported yet")

// Saver accepts completed fix records. A rejection is non-fatal for the
// pipeline: the caller logs it and drops the fix; retry, if any, is the
// sink's own responsibility.
type Saver interface {
	Save(*fix.Fix) error
}

// Connector manages the connection of an external store.
type Connector interface {
	Init(map[string]string) error
	Close() error
}

// Store is a configurable persistence sink.
type Store interface {
	Connector
	Saver
}

// Repository fans completed fixes out to every configured store.
type Repository struct {
	storages   []Saver
	connectors []Connector
}

// AddStore registers a sink.
func (r *Repository) AddStore(s Saver) {
	r.storages = append(r.storages, s)
}

// Save writes the fix to all configured stores. A rejection by one store
// does not keep the fix from reaching the others; the first rejection is
// returned after every store has been tried.
func (r *Repository) Save(f *fix.Fix) error {
	var firstErr error
	for _, store := range r.storages {
		if err := store.Save(f); err != nil {
			log.WithField("err", err).Error("Failed to save fix to storage")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LoadStorages instantiates and connects the stores named in the config
// section.
func (r *Repository) LoadStorages(storages map[string]map[string]string) error {
	if len(storages) == 0 {
		return ErrInvalidStorage
	}

	var db Store
	for store, params := range storages {
		switch store {
		case "postgresql":
			db = &postgresql.Connector{}
		case "mysql":
			db = &mysql.Connector{}
		case "nats":
			db = &nats.Connector{}
		case "rabbitmq":
			db = &rabbitmq.Connector{}
		case "redis":
			db = &redis.Connector{}
		case "tarantool_queue":
			db = &tarantool_queue.Connector{}
		default:
			return ErrUnknownStorage
		}

		if err := db.Init(params); err != nil {
			return err
		}

		r.AddStore(db)
		r.connectors = append(r.connectors, db)
	}
	return nil
}

// Close releases every connected store.
func (r *Repository) Close() {
	for _, c := range r.connectors {
		if err := c.Close(); err != nil {
			log.WithField("err", err).Error("Failed to close storage")
		}
	}
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}
