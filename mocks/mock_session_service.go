package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"snapquote/internal/domain"
	"snapquote/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, userID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockSessionService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.SessionRecord, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SessionRecord), args.Int(1), args.Error(2)
}

func (m *MockSessionService) Extract(ctx context.Context, userID, sessionID uuid.UUID, image []byte, contentType string) (*service.SessionView, error) {
	args := m.Called(ctx, userID, sessionID, image, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockSessionService) UpsertEdit(ctx context.Context, userID, sessionID uuid.UUID, itemNumber int, input service.EditInput) (*service.EditResult, error) {
	args := m.Called(ctx, userID, sessionID, itemNumber, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditResult), args.Error(1)
}

func (m *MockSessionService) AddItem(ctx context.Context, userID, sessionID uuid.UUID, input service.EditInput) (*service.EditResult, error) {
	args := m.Called(ctx, userID, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditResult), args.Error(1)
}

func (m *MockSessionService) SetRates(ctx context.Context, userID, sessionID uuid.UUID, input service.RatesInput) (*service.SessionView, error) {
	args := m.Called(ctx, userID, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockSessionService) SetMeta(ctx context.Context, userID, sessionID uuid.UUID, input service.MetaInput) (*service.SessionView, error) {
	args := m.Called(ctx, userID, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockSessionService) Quotation(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Quotation, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockSessionService) Finalize(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Quotation, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockSessionService) Reset(ctx context.Context, userID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockSessionService) Share(ctx context.Context, userID, sessionID uuid.UUID, toEmail, toName string) error {
	args := m.Called(ctx, userID, sessionID, toEmail, toName)
	return args.Error(0)
}
