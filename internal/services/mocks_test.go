package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/todamoon/terminal/internal/models"
)

type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(raw string) (models.Payload, error) {
	args := m.Called(raw)
	return args.Get(0).(models.Payload), args.Error(1)
}

type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) Encode(payload models.Payload) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

type MockAccountLookup struct {
	mock.Mock
}

func (m *MockAccountLookup) Resolve(ctx context.Context, uid string) (models.Account, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(models.Account), args.Error(1)
}

type MockTransitioner struct {
	mock.Mock
}

func (m *MockTransitioner) Apply(ctx context.Context, role, uid string) (*Transition, error) {
	args := m.Called(ctx, role, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transition), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Signal(ctx context.Context, result ScanResult) {
	m.Called(ctx, result)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, t *Transition) {
	m.Called(ctx, t)
}

type MockIndicator struct {
	mock.Mock
}

func (m *MockIndicator) Buzzer(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndicator) GreenLED(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndicator) RedLED(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndicator) DisplayMessage(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

type MockFrameSource struct {
	mock.Mock
}

func (m *MockFrameSource) Capture(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Detect(frame []byte) (string, error) {
	args := m.Called(frame)
	return args.String(0), args.Error(1)
}

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, raw string) ScanResult {
	return m.Called(ctx, raw).Get(0).(ScanResult)
}
