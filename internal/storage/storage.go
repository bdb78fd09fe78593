// Package storage persists observed messages and their sync state in
// SQLite via GORM.
package storage

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/qwf666/GroupMsgSyncTools/internal/models"

	"gorm.io/gorm"
)

// Storage defines the durable operations the relay pipeline and the
// query/admin surfaces depend on.
type Storage interface {
	SaveMessage(record *models.MessageRecord) (int64, error)
	MarkSynced(id int64, at int64) error
	MessageExists(chatID int64, messageID int) (bool, error)
	GetMessage(id int64) (*models.MessageRecord, error)
	QueryMessages(keyword string) ([]models.MessageRecord, error)
	ListUnsynced(limit int) ([]models.MessageRecord, error)
	GetStats() (models.SyncStats, error)
	Close() error
}

// QueryLimit caps keyword search results.
const QueryLimit = 20

type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// SaveMessage inserts a new record. The record is stored with
// synced=false regardless of what the caller set; sync state only ever
// advances through MarkSynced. The write is committed before returning.
func (s *Service) SaveMessage(record *models.MessageRecord) (int64, error) {
	record.ID = 0
	record.Synced = false
	record.SyncTimestamp = nil

	if err := s.DB.Create(record).Error; err != nil {
		log.Printf("ERROR: Failed to save message %d from chat %d: %v",
			record.MessageID, record.ChatID, err)
		return 0, err
	}
	return record.ID, nil
}

// MarkSynced flips the record to synced and stamps the sync time. The
// synced=0 guard makes the transition happen at most once: re-invoking
// for an already-synced record is a no-op, and sync_timestamp is never
// overwritten.
func (s *Service) MarkSynced(id int64, at int64) error {
	return s.DB.Model(&models.MessageRecord{}).
		Where("id = ? AND synced = ?", id, false).
		Updates(map[string]interface{}{
			"synced":         true,
			"sync_timestamp": at,
		}).Error
}

// MessageExists reports whether a record for (chatID, messageID) is
// already present. Backs the optional replay dedupe.
func (s *Service) MessageExists(chatID int64, messageID int) (bool, error) {
	var count int64
	err := s.DB.Model(&models.MessageRecord{}).
		Where("chat_id = ? AND message_id = ?", chatID, messageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMessage returns the record with the given ID, or nil when absent.
func (s *Service) GetMessage(id int64) (*models.MessageRecord, error) {
	var record models.MessageRecord
	err := s.DB.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// QueryMessages returns synced records whose text contains keyword,
// newest first, capped at QueryLimit. Matching uses instr() so it stays
// case-sensitive; LIKE would be case-insensitive for ASCII in SQLite.
// Unsynced records are never returned: search covers what was actually
// relayed.
func (s *Service) QueryMessages(keyword string) ([]models.MessageRecord, error) {
	var records []models.MessageRecord
	err := s.DB.
		Where("synced = ? AND text IS NOT NULL AND instr(text, ?) > 0", true, keyword).
		Order("timestamp DESC").
		Limit(QueryLimit).
		Find(&records).Error
	if err != nil {
		log.Printf("ERROR: Failed to query messages for keyword %q: %v", keyword, err)
		return nil, err
	}
	return records, nil
}

// ListUnsynced returns records that never got confirmed, oldest first.
// Used by the admin resync command.
func (s *Service) ListUnsynced(limit int) ([]models.MessageRecord, error) {
	var records []models.MessageRecord
	q := s.DB.Where("synced = ?", false).Order("timestamp ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		log.Printf("ERROR: Failed to list unsynced messages: %v", err)
		return nil, err
	}
	return records, nil
}

// GetStats aggregates counters over synced records only. The day boundary
// for TodayMessages is the start of the current local calendar day,
// computed on every call.
func (s *Service) GetStats() (models.SyncStats, error) {
	var stats models.SyncStats

	err := s.DB.Model(&models.MessageRecord{}).
		Where("synced = ?", true).
		Count(&stats.TotalMessages).Error
	if err != nil {
		return stats, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	err = s.DB.Model(&models.MessageRecord{}).
		Where("synced = ? AND timestamp >= ?", true, todayStart.UnixMilli()).
		Count(&stats.TodayMessages).Error
	if err != nil {
		return stats, err
	}

	var last sql.NullInt64
	err = s.DB.Model(&models.MessageRecord{}).
		Where("synced = ?", true).
		Select("MAX(sync_timestamp)").
		Scan(&last).Error
	if err != nil {
		return stats, err
	}
	if last.Valid {
		stats.LastSyncTime = &last.Int64
	}

	return stats, nil
}

// Close releases the underlying database handle.
func (s *Service) Close() error {
	log.Println("Closing database connection")
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
