package relay_test

import (
	"github.com/qwf666/GroupMsgSyncTools/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock for storage.Storage.
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

// MockForwarder is a testify mock for relay.Forwarder.
type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) ForwardMessage(targetChatID, sourceChatID int64, messageID int) error {
	args := m.Called(targetChatID, sourceChatID, messageID)
	return args.Error(0)
}

func (m *MockForwarder) SendMessage(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}
