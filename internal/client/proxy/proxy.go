// Package proxy implements the client-side counterpart of the contest
// protocol: a connection wrapper that sends requests, matches each reply
// to its caller, and surfaces unsolicited notification frames through
// callbacks.
package proxy

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/netx"
	"github.com/culbec/motocontest/internal/protocol"
)

// dialRetries is how many times Dial retries a refused connection before
// giving up, to ride out a server that is still starting.
const dialRetries = 3

// ErrConnectionClosed is returned by calls made after the server closed
// the session, either by shutting down or by dropping the connection.
var ErrConnectionClosed = errors.New("connection closed by server")

// ServerError carries an error message produced by the server for a
// request that was delivered and processed.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Handlers are the callbacks invoked for unsolicited frames. Both are
// optional. They are called from the proxy's reader goroutine, so they
// must not block on proxy calls.
type Handlers struct {
	ParticipantAdded func(model.Participant)
	ServerShutdown   func()
}

type callResult struct {
	resp *protocol.Response
	err  error
}

// Proxy is a connected contest client. One request may be in flight at a
// time; concurrent callers are serialized. A dedicated reader goroutine
// owns the receive side of the socket: replies are handed to the waiting
// caller through a single-slot channel, notifications go to Handlers.
type Proxy struct {
	conn     net.Conn
	codec    *protocol.Codec
	logger   logging.Logger
	handlers Handlers

	// reqMu serializes write-request/await-reply pairs so a reply can
	// only ever belong to the caller currently holding the lock.
	reqMu   sync.Mutex
	handoff chan callResult

	errMu sync.Mutex
	err   error

	closing      atomic.Bool
	closeOnce    sync.Once
	shutdownOnce sync.Once
}

// Dial connects to the contest server and starts the reader goroutine.
func Dial(ctx context.Context, addr string, logger logging.Logger, handlers Handlers) (*Proxy, error) {
	conn, err := netx.DialWithRetry(ctx, addr, dialRetries)
	if err != nil {
		return nil, err
	}

	p := &Proxy{
		conn:     conn,
		codec:    protocol.NewCodec(conn),
		logger:   logger.With("module", "proxy", "server", addr),
		handlers: handlers,
		handoff:  make(chan callResult, 1),
	}

	go p.readLoop()
	return p, nil
}

// Close tears the connection down locally. The reader goroutine exits on
// the resulting read error without treating it as a server shutdown.
func (p *Proxy) Close() error {
	p.closing.Store(true)
	var err error
	p.closeOnce.Do(func() {
		err = p.conn.Close()
	})
	return err
}

func (p *Proxy) readLoop() {
	ctx := context.Background()

	for {
		resp, err := p.codec.ReadResponse()
		if err != nil {
			if errors.Is(err, protocol.ErrBadFrame) || errors.Is(err, protocol.ErrFrameTooLarge) {
				// Framing is still intact; skip the frame.
				p.logger.Warn(ctx, "dropping malformed frame", "error", err.Error())
				continue
			}
			p.fail(ErrConnectionClosed)
			return
		}

		switch resp.Kind {
		case protocol.ResponseParticipantAdded:
			participant, perr := resp.Participant()
			if perr != nil {
				p.logger.Warn(ctx, "dropping malformed notification", "error", perr.Error())
				continue
			}
			if p.handlers.ParticipantAdded != nil {
				p.handlers.ParticipantAdded(participant)
			}

		case protocol.ResponseConnectionClosed:
			p.logger.Info(ctx, "server is shutting down")
			p.fail(ErrConnectionClosed)
			return

		default:
			select {
			case p.handoff <- callResult{resp: resp}:
			default:
				// A reply nobody asked for; the caller slot is taken.
				p.logger.Warn(ctx, "discarding unexpected response", "kind", string(resp.Kind))
			}
		}
	}
}

// fail records the terminal error, unblocks any waiting caller, closes
// the socket, and fires the shutdown callback unless the teardown was
// initiated locally through Close.
func (p *Proxy) fail(err error) {
	p.errMu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.errMu.Unlock()

	select {
	case p.handoff <- callResult{err: err}:
	default:
	}

	selfInitiated := p.closing.Load()
	p.closeOnce.Do(func() {
		_ = p.conn.Close()
	})

	if !selfInitiated && p.handlers.ServerShutdown != nil {
		p.shutdownOnce.Do(p.handlers.ServerShutdown)
	}
}

func (p *Proxy) terminalErr() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// call sends one request and blocks until the matching reply arrives,
// the connection dies, or ctx is cancelled. Cancellation closes the
// connection, since the stream position would otherwise be lost.
func (p *Proxy) call(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	p.reqMu.Lock()
	defer p.reqMu.Unlock()

	if err := p.terminalErr(); err != nil {
		return nil, err
	}

	if err := p.codec.WriteRequest(req); err != nil {
		return nil, err
	}

	select {
	case res := <-p.handoff:
		if res.err != nil {
			return nil, res.err
		}
		if res.resp.Kind == protocol.ResponseError {
			return nil, &ServerError{Message: res.resp.ErrorMessage()}
		}
		return res.resp, nil
	case <-ctx.Done():
		_ = p.Close()
		return nil, ctx.Err()
	}
}

// Login authenticates and binds a session to this connection. The server
// terminates the connection after a failed login, so a login error leaves
// the proxy closed. That teardown counts as client-initiated: the reader
// must not report it through the shutdown handler, which is why closing
// is set for the whole exchange and lifted only once a session exists.
func (p *Proxy) Login(ctx context.Context, username, password string) (*model.User, error) {
	p.closing.Store(true)

	resp, err := p.call(ctx, protocol.NewLoginRequest(username, password))
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	user, err := resp.User()
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	p.closing.Store(false)
	return &user, nil
}

// Logout destroys the session and closes the connection. The server
// terminates the connection after a logout exchange no matter the
// outcome, so the teardown counts as client-initiated from here on.
func (p *Proxy) Logout(ctx context.Context, user model.User) error {
	p.closing.Store(true)
	_, err := p.call(ctx, protocol.NewLogoutRequest(user))
	if err != nil {
		return err
	}
	return p.Close()
}

func (p *Proxy) AddParticipant(ctx context.Context, firstName, lastName, team string, engineCapacity int) (*model.Participant, error) {
	resp, err := p.call(ctx, protocol.NewAddParticipantRequest(firstName, lastName, team, engineCapacity))
	if err != nil {
		return nil, err
	}

	participant, err := resp.Participant()
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (p *Proxy) FindParticipantsByTeam(ctx context.Context, team string) ([]model.Participant, error) {
	resp, err := p.call(ctx, protocol.NewFindParticipantsByTeamRequest(team))
	if err != nil {
		return nil, err
	}
	return resp.Participants()
}

func (p *Proxy) FindAllRaces(ctx context.Context) ([]model.Race, error) {
	resp, err := p.call(ctx, protocol.NewFindRacesRequest())
	if err != nil {
		return nil, err
	}
	return resp.Races()
}

func (p *Proxy) FindAllRaceEngineCapacities(ctx context.Context) ([]int, error) {
	resp, err := p.call(ctx, protocol.NewFindEngineCapacitiesRequest())
	if err != nil {
		return nil, err
	}
	return resp.EngineCapacities()
}
