package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"address-inspector/internal/domain/entity"
	"address-inspector/internal/pkg/apperrors"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishWritesKeyedEnvelope(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, zap.NewNop())
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	result := entity.Success(entity.Metadata{"count": 3})
	err := p.Publish(context.Background(), "lookup-1", entity.Event{
		Kind:       entity.EventNetworkSettled,
		CheckIndex: 3,
		Network:    entity.NetworkMainnet,
		Result:     &result,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "lookup-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "network_settled", string(msg.Headers[0].Value))

	var got struct {
		LookupID   string    `json:"lookupId"`
		OccurredAt time.Time `json:"occurredAt"`
		Event      struct {
			Kind    string `json:"kind"`
			Network string `json:"network"`
			Result  struct {
				Status   string         `json:"status"`
				Metadata map[string]any `json:"metadata"`
			} `json:"result"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "lookup-1", got.LookupID)
	assert.True(t, fixed.Equal(got.OccurredAt))
	assert.Equal(t, "mainnet", got.Event.Network)
	assert.Equal(t, "success", got.Event.Result.Status)
	assert.EqualValues(t, 3, got.Event.Result.Metadata["count"])
}

func TestPublishWrapsWriterErrors(t *testing.T) {
	p := newPublisher(&recordingWriter{err: errors.New("broker down")}, zap.NewNop())

	err := p.Publish(context.Background(), "lookup-1", entity.Event{Kind: entity.EventDone})
	assert.ErrorIs(t, err, apperrors.ErrExternalServiceFailure)
}

func TestClose(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, newPublisher(w, zap.NewNop()).Close())
	assert.True(t, w.closed)
}
