package interceptor

import (
	"time"

	"github.com/stretchr/testify/mock"

	"go-task-tracker/internal/model"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Error(message string, duration ...time.Duration) model.Notification {
	m.Called(message)
	return model.Notification{Category: model.NotificationError, Message: message}
}

type mockTerminator struct {
	mock.Mock
}

func (m *mockTerminator) Logout() {
	m.Called()
}

type staticTokens struct {
	token string
}

func (s staticTokens) Read() (string, bool, error) {
	return s.token, s.token != "", nil
}
