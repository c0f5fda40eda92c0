package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEncodesJSONAndKeepsKey(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy", "")

	require.NoError(t, p.Publish(context.Background(), "fxscore.results", []byte("RISK_ON"), map[string]string{"regime": "RISK_ON"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "fxscore.results", w.msgs[0].Topic)
	assert.Equal(t, []byte("RISK_ON"), w.msgs[0].Key)
	assert.JSONEq(t, `{"regime":"RISK_ON"}`, string(w.msgs[0].Value))
}

func TestPublishLeavesTopicToWriterDefault(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy", "fxscore.results")

	require.NoError(t, p.Publish(context.Background(), "ignored", nil, "raw"))
	assert.Equal(t, "", w.msgs[0].Topic)
	assert.Equal(t, []byte("raw"), w.msgs[0].Value)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newProducer(w, "snappy", "")
	err := p.Publish(context.Background(), "t", nil, []byte("x"))
	assert.ErrorContains(t, err, "kafka write t")
}

func TestProducerConfigValidate(t *testing.T) {
	cfg := defaultProducerConfig()
	assert.EqualError(t, cfg.validate(), "brokers are required")

	cfg.Brokers = []string{"localhost:9092"}
	require.NoError(t, cfg.validate())

	cfg.RequiredAcks = 2
	assert.ErrorContains(t, cfg.validate(), "required acks")

	cfg.RequiredAcks = 1
	cfg.Compression = "brotli"
	assert.ErrorContains(t, cfg.validate(), `unknown compression "brotli"`)

	cfg.Compression = "zstd"
	cfg.MaxAttempts = 0
	require.NoError(t, cfg.validate())
	assert.Equal(t, 1, cfg.MaxAttempts)
}

func TestNewProducerRejectsBadConfig(t *testing.T) {
	_, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithCompression("lzma"))
	assert.ErrorContains(t, err, "kafka producer")
}
