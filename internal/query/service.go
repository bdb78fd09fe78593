// Package query exposes read-only search and statistics over persisted
// message records for the operator-facing surfaces.
package query

import (
	"github.com/qwf666/GroupMsgSyncTools/internal/models"
	"github.com/qwf666/GroupMsgSyncTools/internal/storage"
)

type Service struct {
	Store storage.Storage
}

// NewService creates a query service on top of the record store.
func NewService(s storage.Storage) *Service {
	return &Service{Store: s}
}

// Search returns synced records matching keyword, newest first. The store
// caps the result set; no caching, every call hits the database.
func (s *Service) Search(keyword string) ([]models.MessageRecord, error) {
	return s.Store.QueryMessages(keyword)
}

// Stats returns the aggregate sync counters.
func (s *Service) Stats() (models.SyncStats, error) {
	return s.Store.GetStats()
}
