package recorder

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/interview-api/internal/capture"
)

type fakeTicker struct{ ch chan time.Time }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

type fakeStream struct {
	chunks chan capture.Chunk

	mu      sync.Mutex
	stopped bool
}

func (f *fakeStream) Chunks() <-chan capture.Chunk { return f.chunks }

func (f *fakeStream) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeStream) wasStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakeDevice struct {
	stream *fakeStream
	err    error
}

func (d *fakeDevice) Acquire(context.Context, capture.Constraints) (capture.Stream, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.stream, nil
}

var testStart = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

// newTestSession wires a session to a fake device and a hand-driven
// clock. Chunk and tick channels are unbuffered so sends only return
// once the recording loop has consumed them.
func newTestSession(t *testing.T, questionID int, ceiling time.Duration) (*Session, *fakeStream, *fakeTicker) {
	t.Helper()

	stream := &fakeStream{chunks: make(chan capture.Chunk)}
	tk := &fakeTicker{ch: make(chan time.Time)}
	logger := zerolog.New(io.Discard)

	session := NewSession(questionID, ceiling, capture.NewManager(&fakeDevice{stream: stream}, logger), logger)
	session.newTicker = func(time.Duration) ticker { return tk }
	session.now = func() time.Time { return testStart }

	return session, stream, tk
}

func TestSessionManualStop(t *testing.T) {
	session, stream, _ := newTestSession(t, 1, 240*time.Second)

	require.NoError(t, session.Start(context.Background()))
	require.Equal(t, StateRecording, session.State())

	stream.chunks <- capture.Chunk{Data: []byte("webm-")}
	stream.chunks <- capture.Chunk{Data: []byte("chunk")}

	session.Stop()

	require.Equal(t, StateStoppedReady, session.State())
	require.True(t, stream.wasStopped())

	clip, err := session.Finalize()
	require.NoError(t, err)
	require.Equal(t, 1, clip.QuestionID)
	require.Equal(t, []byte("webm-chunk"), clip.Data)
	require.Equal(t, testStart, clip.CapturedAt)
	require.Equal(t, StateSubmitted, session.State())
}

func TestSessionStopsAtCeiling(t *testing.T) {
	session, stream, tk := newTestSession(t, 2, 240*time.Second)

	require.NoError(t, session.Start(context.Background()))
	stream.chunks <- capture.Chunk{Data: []byte("payload")}

	for i := 0; i < 240; i++ {
		tk.ch <- testStart.Add(time.Duration(i+1) * time.Second)
	}
	<-session.Done()

	require.Equal(t, StateStoppedReady, session.State())
	require.Equal(t, 240, session.Elapsed())
	require.True(t, stream.wasStopped())

	clip, err := session.Finalize()
	require.NoError(t, err)
	require.Equal(t, 240*time.Second, clip.Duration)
}

func TestSessionDeviceDenied(t *testing.T) {
	logger := zerolog.New(io.Discard)
	manager := capture.NewManager(&fakeDevice{err: errors.New("permission denied")}, logger)
	session := NewSession(3, 240*time.Second, manager, logger)

	err := session.Start(context.Background())
	require.ErrorIs(t, err, capture.ErrDeviceAccess)
	require.Equal(t, StateIdle, session.State())
	require.False(t, manager.Held())
}

func TestSessionRejectsConcurrentStart(t *testing.T) {
	session, stream, _ := newTestSession(t, 1, 240*time.Second)

	require.NoError(t, session.Start(context.Background()))
	require.ErrorIs(t, session.Start(context.Background()), ErrNotIdle)

	stream.chunks <- capture.Chunk{Data: []byte("x")}
	session.Stop()
}

func TestSessionEmptyCaptureReturnsToIdle(t *testing.T) {
	session, stream, _ := newTestSession(t, 4, 240*time.Second)

	require.NoError(t, session.Start(context.Background()))
	close(stream.chunks)
	<-session.Done()

	require.Equal(t, StateIdle, session.State())
	require.ErrorIs(t, session.Err(), ErrRecorderFailure)
	require.True(t, stream.wasStopped())

	_, err := session.Finalize()
	require.ErrorIs(t, err, ErrNoClip)
}

func TestSessionDiscardDropsClip(t *testing.T) {
	session, stream, _ := newTestSession(t, 5, 240*time.Second)

	require.NoError(t, session.Start(context.Background()))
	stream.chunks <- capture.Chunk{Data: []byte("take-one")}
	session.Stop()

	require.NoError(t, session.Discard())
	require.Equal(t, StateIdle, session.State())
	require.Equal(t, 0, session.Elapsed())

	_, err := session.Finalize()
	require.ErrorIs(t, err, ErrNoClip)
}

func TestSessionDiscardRequiresFinishedClip(t *testing.T) {
	session, _, _ := newTestSession(t, 6, 240*time.Second)
	require.ErrorIs(t, session.Discard(), ErrNoClip)
}

func TestSessionStopIsNoopWhenIdle(t *testing.T) {
	session, _, _ := newTestSession(t, 1, 240*time.Second)
	session.Stop()
	require.Equal(t, StateIdle, session.State())
}
