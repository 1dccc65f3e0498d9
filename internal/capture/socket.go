package capture

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

const chunkBuffer = 64

// SocketDevice adapts a websocket connection into a capture Device. The
// remote browser owns the physical camera and microphone and forwards
// encoded media as binary messages; a text "stop" message ends the stream
// the same way a local track stop would.
type SocketDevice struct {
	conn   *websocket.Conn
	logger zerolog.Logger
}

// NewSocketDevice wraps an upgraded websocket connection.
func NewSocketDevice(conn *websocket.Conn, logger zerolog.Logger) *SocketDevice {
	return &SocketDevice{
		conn:   conn,
		logger: logger.With().Str("component", "socket_device").Logger(),
	}
}

// Acquire starts reading media chunks from the remote peer.
func (d *SocketDevice) Acquire(_ context.Context, _ Constraints) (Stream, error) {
	if d.conn == nil {
		return nil, errors.New("websocket connection missing")
	}

	s := &socketStream{
		conn:   d.conn,
		chunks: make(chan Chunk, chunkBuffer),
		done:   make(chan struct{}),
	}
	go s.readLoop(d.logger)

	return s, nil
}

type socketStream struct {
	conn   *websocket.Conn
	chunks chan Chunk
	done   chan struct{}
	once   sync.Once
}

func (s *socketStream) Chunks() <-chan Chunk {
	return s.chunks
}

// Stop halts the stream. The connection itself stays open so the caller
// can still deliver a final result frame; an expired read deadline
// unblocks the pending read instead.
func (s *socketStream) Stop() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.SetReadDeadline(time.Now())
	})
	return err
}

func (s *socketStream) readLoop(logger zerolog.Logger) {
	defer close(s.chunks)

	for {
		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if len(payload) == 0 {
				continue
			}
			data := make([]byte, len(payload))
			copy(data, payload)
			select {
			case s.chunks <- Chunk{Data: data, At: time.Now()}:
			case <-s.done:
				return
			}
		case websocket.TextMessage:
			if strings.EqualFold(strings.TrimSpace(string(payload)), "stop") {
				logger.Debug().Msg("remote stop received")
				return
			}
		}
	}
}
