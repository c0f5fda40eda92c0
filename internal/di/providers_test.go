package di

import (
	"testing"

	"FxScore/pkg/config"
	applogger "FxScore/pkg/logger"
	"FxScore/pkg/queue"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideLogQueueIsSeparateAndProducerOnly(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Queue.Enabled = true
	cfg.Logging.Collector.Enabled = true
	db, _ := redismock.NewClientMock()

	logs := ProvideLogQueue(cfg, db, applogger.Nop())
	require.NotNil(t, logs.RedisQueue)
	assert.Equal(t, queue.ModeProducerOnly, logs.Mode())

	jobs := ProvideQueue(cfg, db, nil, applogger.Nop())
	require.NotNil(t, jobs)
	assert.Equal(t, queue.ModeProducerConsumer, jobs.Mode())
	assert.NotSame(t, jobs, logs.RedisQueue)
}

func TestProvideLogQueueDisabled(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	db, _ := redismock.NewClientMock()

	assert.Nil(t, ProvideLogQueue(cfg, db, applogger.Nop()).RedisQueue)

	cfg.Logging.Collector.Enabled = true
	assert.Nil(t, ProvideLogQueue(cfg, nil, applogger.Nop()).RedisQueue)
}
