package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type scriptedHandler struct {
	errs  []error
	calls int
}

func (h *scriptedHandler) Topic() string { return "fxscore.inputs" }

func (h *scriptedHandler) Handle(context.Context, []byte) error {
	h.calls++
	if h.calls <= len(h.errs) {
		return h.errs[h.calls-1]
	}
	return nil
}

func newTestConsumer(t *testing.T, retries int) (*Consumer, *fakeWriter) {
	t.Helper()
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(retries, time.Millisecond, time.Millisecond),
		WithConsumerDLQ("fxscore.inputs.dlq"),
	)
	require.NoError(t, err)
	w := &fakeWriter{}
	c.dlq = w
	c.sleep = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	return c, w
}

func TestDispatchRetriesTransientErrors(t *testing.T) {
	c, w := newTestConsumer(t, 3)
	h := &scriptedHandler{errs: []error{errors.New("redis down"), errors.New("redis down")}}

	c.dispatch(h, &message{topic: h.Topic(), data: []byte(`{}`)})

	assert.Equal(t, 3, h.calls)
	assert.Empty(t, w.msgs)
}

func TestDispatchSendsPermanentErrorsStraightToDLQ(t *testing.T) {
	c, w := newTestConsumer(t, 3)
	h := &scriptedHandler{errs: []error{Permanent(errors.New("bad payload"))}}

	c.dispatch(h, &message{topic: h.Topic(), data: []byte(`nope`), km: kafka.Message{Key: []byte("k")}})

	assert.Equal(t, 1, h.calls)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "fxscore.inputs.dlq", w.msgs[0].Topic)
	assert.Equal(t, []byte("nope"), w.msgs[0].Value)
	assert.Equal(t, "source_topic", w.msgs[0].Headers[0].Key)
	assert.Equal(t, "fxscore.inputs", string(w.msgs[0].Headers[0].Value))
}

func TestDispatchGivesUpAfterRetryMax(t *testing.T) {
	c, w := newTestConsumer(t, 2)
	boom := errors.New("boom")
	h := &scriptedHandler{errs: []error{boom, boom, boom, boom}}

	c.dispatch(h, &message{topic: h.Topic()})

	assert.Equal(t, 3, h.calls)
	assert.Len(t, w.msgs, 1)
}

type orderHandler struct {
	mu   sync.Mutex
	seen map[int][]int
	done chan struct{}
	left int
}

func (h *orderHandler) Topic() string { return "fxscore.inputs" }

func (h *orderHandler) Handle(_ context.Context, b []byte) error {
	var partition, offset int
	if _, err := fmt.Sscanf(string(b), "%d:%d", &partition, &offset); err != nil {
		return Permanent(err)
	}
	time.Sleep(100 * time.Microsecond)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen[partition] = append(h.seen[partition], offset)
	h.left--
	if h.left == 0 {
		close(h.done)
	}
	return nil
}

func TestWorkersKeepPartitionOrder(t *testing.T) {
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerWorkers(3),
		WithConsumerBufferSize(4),
	)
	require.NoError(t, err)

	const partitions, perPartition = 4, 25
	h := &orderHandler{seen: map[int][]int{}, done: make(chan struct{}), left: partitions * perPartition}
	c.RegisterHandler(h)
	c.startWorkers()

	for offset := 0; offset < perPartition; offset++ {
		for p := 0; p < partitions; p++ {
			require.True(t, c.enqueue(&message{
				topic: h.Topic(),
				data:  []byte(fmt.Sprintf("%d:%d", p, offset)),
				km:    kafka.Message{Partition: p, Offset: int64(offset)},
			}))
		}
	}

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatal("messages not handled in time")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Stop(ctx))

	for p := 0; p < partitions; p++ {
		require.Len(t, h.seen[p], perPartition, "partition %d", p)
		for i, offset := range h.seen[p] {
			assert.Equal(t, i, offset, "partition %d out of order", p)
		}
	}
}

func TestShardIsStablePerPartition(t *testing.T) {
	c, err := NewConsumer(WithConsumerBrokers([]string{"localhost:9092"}), WithConsumerWorkers(2))
	require.NoError(t, err)
	for p := 0; p < 8; p++ {
		w := c.shard("fxscore.inputs", p)
		assert.Equal(t, w, c.shard("fxscore.inputs", p))
		assert.GreaterOrEqual(t, w, 0)
		assert.Less(t, w, 2)
	}
	assert.NotEqual(t, c.shard("fxscore.inputs", 0), c.shard("fxscore.inputs", 1))
}

type panicHandler struct{}

func (panicHandler) Topic() string                        { return "t" }
func (panicHandler) Handle(context.Context, []byte) error { panic("nil map") }

func TestHandlerPanicIsPermanent(t *testing.T) {
	c, w := newTestConsumer(t, 5)
	c.dispatch(panicHandler{}, &message{topic: "t"})
	assert.Len(t, w.msgs, 1)
}

func TestPermanentWrapping(t *testing.T) {
	base := errors.New("invalid input")
	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}

func TestBackoffStaysWithinBounds(t *testing.T) {
	for attempt := 1; attempt < 10; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		assert.LessOrEqual(t, d, 100*time.Millisecond)
		assert.Greater(t, d, time.Duration(0))
	}
}

func TestHookChainRecoversPanics(t *testing.T) {
	var errs int
	chain := NewHookChain(
		HookFuncs{Before: func(context.Context, string, kafka.Message, []byte) (context.Context, kafka.Message, []byte, error) {
			panic("bad hook")
		}},
		HookFuncs{Err: func(context.Context, string, kafka.Message, []byte, error) { errs++ }},
	)
	_, _, _, err := chain.BeforeHandle(context.Background(), "t", kafka.Message{}, nil)
	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "ERR_PANIC", he.Code)
	assert.Equal(t, 1, errs)
}

func TestTraceHookCarriesHeader(t *testing.T) {
	km := kafka.Message{Headers: []kafka.Header{{Key: "trace_id", Value: []byte("abc")}}}
	ctx, _, _, err := TraceHook().BeforeHandle(context.Background(), "t", km, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", TraceIDFrom(ctx))
}
