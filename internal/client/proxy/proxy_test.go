package proxy

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/protocol"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// fakeServer accepts a single connection and hands it to script for
// driving the conversation from the server side.
func fakeServer(t *testing.T, script func(codec *protocol.Codec, conn net.Conn)) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		script(protocol.NewCodec(conn), conn)
	}()

	return listener.Addr().String()
}

func TestProxy_RequestResponse(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, _ net.Conn) {
		req, err := codec.ReadRequest()
		if err != nil || req.Kind != protocol.RequestFindEngineCapacities {
			return
		}
		_ = codec.WriteResponse(protocol.NewEngineCapacitiesResponse([]int{125, 250}))
	})

	p, err := Dial(context.Background(), addr, testLogger(), Handlers{})
	require.NoError(t, err)
	defer p.Close()

	capacities, err := p.FindAllRaceEngineCapacities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{125, 250}, capacities)
}

func TestProxy_ErrorResponse(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, _ net.Conn) {
		if _, err := codec.ReadRequest(); err != nil {
			return
		}
		_ = codec.WriteResponse(protocol.NewErrorResponse("authentication failed"))
	})

	p, err := Dial(context.Background(), addr, testLogger(), Handlers{})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Login(context.Background(), "test1", "wrong")
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "authentication failed", serverErr.Message)
}

// A notification arriving while a request is in flight goes to the
// handler and never steals the caller's reply.
func TestProxy_NotificationDuringCall(t *testing.T) {
	participant := model.Participant{FirstName: "Marc", LastName: "Marquez", Team: "Honda", EngineCapacity: 1000}

	addr := fakeServer(t, func(codec *protocol.Codec, _ net.Conn) {
		if _, err := codec.ReadRequest(); err != nil {
			return
		}
		_ = codec.WriteResponse(protocol.NewParticipantAddedResponse(participant))
		_ = codec.WriteResponse(protocol.NewRacesResponse([]model.Race{{ID: 1, EngineCapacity: 1000, NoParticipants: 1}}))
	})

	notified := make(chan model.Participant, 1)
	p, err := Dial(context.Background(), addr, testLogger(), Handlers{
		ParticipantAdded: func(got model.Participant) { notified <- got },
	})
	require.NoError(t, err)
	defer p.Close()

	races, err := p.FindAllRaces(context.Background())
	require.NoError(t, err)
	require.Len(t, races, 1)

	select {
	case got := <-notified:
		assert.Equal(t, participant.LastName, got.LastName)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestProxy_ServerShutdown(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, conn net.Conn) {
		_ = codec.WriteResponse(protocol.NewConnectionClosedResponse())
	})

	shutdown := make(chan struct{})
	p, err := Dial(context.Background(), addr, testLogger(), Handlers{
		ServerShutdown: func() { close(shutdown) },
	})
	require.NoError(t, err)
	defer p.Close()

	select {
	case <-shutdown:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown handler was not invoked")
	}

	_, err = p.FindAllRaces(context.Background())
	require.ErrorIs(t, err, ErrConnectionClosed)
}

// A wrong password ends the session by design, not by server failure: the
// shutdown handler must stay silent when the server drops the connection
// after answering a login with an error.
func TestProxy_FailedLoginDoesNotFireShutdown(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, conn net.Conn) {
		if _, err := codec.ReadRequest(); err != nil {
			return
		}
		_ = codec.WriteResponse(protocol.NewErrorResponse("authentication failed"))
		_ = conn.Close()
	})

	fired := make(chan struct{}, 1)
	p, err := Dial(context.Background(), addr, testLogger(), Handlers{
		ServerShutdown: func() { fired <- struct{}{} },
	})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Login(context.Background(), "test1", "wrong")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)

	select {
	case <-fired:
		t.Fatal("shutdown handler fired after a failed login")
	case <-time.After(500 * time.Millisecond):
	}

	_, err = p.FindAllRaces(context.Background())
	require.Error(t, err)
}

func TestProxy_ConnectionDropUnblocksCaller(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, conn net.Conn) {
		if _, err := codec.ReadRequest(); err != nil {
			return
		}
		_ = conn.Close()
	})

	p, err := Dial(context.Background(), addr, testLogger(), Handlers{})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.FindAllRaces(context.Background())
	require.ErrorIs(t, err, ErrConnectionClosed)
}

// Malformed frames are skipped without losing the reply that follows.
func TestProxy_SkipsMalformedFrame(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, conn net.Conn) {
		if _, err := codec.ReadRequest(); err != nil {
			return
		}

		garbage := []byte("???")
		frame := make([]byte, 4+len(garbage))
		binary.BigEndian.PutUint32(frame, uint32(len(garbage)))
		copy(frame[4:], garbage)
		if _, err := conn.Write(frame); err != nil {
			return
		}

		_ = codec.WriteResponse(protocol.NewEngineCapacitiesResponse([]int{500}))
	})

	p, err := Dial(context.Background(), addr, testLogger(), Handlers{})
	require.NoError(t, err)
	defer p.Close()

	capacities, err := p.FindAllRaceEngineCapacities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{500}, capacities)
}

func TestProxy_LocalCloseDoesNotFireShutdown(t *testing.T) {
	addr := fakeServer(t, func(codec *protocol.Codec, conn net.Conn) {
		// Hold the connection open until the client hangs up.
		_, _ = codec.ReadRequest()
	})

	fired := make(chan struct{}, 1)
	p, err := Dial(context.Background(), addr, testLogger(), Handlers{
		ServerShutdown: func() { fired <- struct{}{} },
	})
	require.NoError(t, err)

	require.NoError(t, p.Close())

	select {
	case <-fired:
		t.Fatal("shutdown handler fired on a local close")
	case <-time.After(200 * time.Millisecond):
	}
}
