package telegram

import (
	"github.com/qwf666/GroupMsgSyncTools/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

// MockSender is a mock of the replySender seam.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

// MockStorage is a mock implementation of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveMessage(record *models.MessageRecord) (int64, error) {
	args := m.Called(record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkSynced(id int64, at int64) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockStorage) MessageExists(chatID int64, messageID int) (bool, error) {
	args := m.Called(chatID, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) GetMessage(id int64) (*models.MessageRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageRecord), args.Error(1)
}

func (m *MockStorage) QueryMessages(keyword string) ([]models.MessageRecord, error) {
	args := m.Called(keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MessageRecord), args.Error(1)
}

func (m *MockStorage) ListUnsynced(limit int) ([]models.MessageRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MessageRecord), args.Error(1)
}

func (m *MockStorage) GetStats() (models.SyncStats, error) {
	args := m.Called()
	return args.Get(0).(models.SyncStats), args.Error(1)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}
