package subscriber

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAckableMsg struct {
	mock.Mock
}

func (m *mockAckableMsg) Data() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *mockAckableMsg) Subject() string {
	return "catalog.promotion.rules_dirty"
}

func (m *mockAckableMsg) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Nak() error {
	args := m.Called()
	return args.Error(0)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, channelIDs []uuid.UUID) error {
	args := m.Called(ctx, channelIDs)
	return args.Error(0)
}

func Test_handleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	channelIDs := []uuid.UUID{uuid.New(), uuid.New()}
	validPayload, _ := json.Marshal(&events.PromotionRulesDirtyEvent{
		ChannelIDs: channelIDs,
		MarkedAt:   time.Now(),
	})
	testCases := []struct {
		name               string
		newMockMsg         func() *mockAckableMsg
		newMockInvalidator func() *mockInvalidator
	}{
		{
			name: "valid message",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return(validPayload).Times(1)
				msg.On("Ack").Return(nil).Times(1)
				return msg
			},
			newMockInvalidator: func() *mockInvalidator {
				inv := new(mockInvalidator)
				inv.On("Invalidate", mock.Anything, channelIDs).Return(nil).Times(1)
				return inv
			},
		},
		{
			name: "invalid message",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return([]byte("invalid data")).Times(1)
				msg.On("Nak").Return(nil).Times(1)
				return msg
			},
			newMockInvalidator: func() *mockInvalidator {
				return new(mockInvalidator)
			},
		},
		{
			name: "invalidation failure is nacked for redelivery",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return(validPayload).Times(1)
				msg.On("Nak").Return(nil).Times(1)
				return msg
			},
			newMockInvalidator: func() *mockInvalidator {
				inv := new(mockInvalidator)
				inv.On("Invalidate", mock.Anything, channelIDs).Return(context.DeadlineExceeded).Times(1)
				return inv
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockMsg := tc.newMockMsg()
			mockInv := tc.newMockInvalidator()

			// when
			handleMessage(context.Background(), mockMsg, mockInv, logger)

			// then
			mockMsg.AssertExpectations(t)
			mockInv.AssertExpectations(t)
		})
	}
}
