// Package server runs the contest TCP endpoint: a blocking accept loop
// spawning one connection worker per client, plus the application wiring
// that assembles repositories and services behind it.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/protocol"
	"github.com/culbec/motocontest/internal/server/service"
)

// Worker serves one client connection: it reads request frames, dispatches
// each to exactly one contest operation, and writes back one response per
// request. It also implements service.Observer, pushing notification
// frames onto the same socket; the codec's write lock keeps those frames
// from interleaving with responses.
type Worker struct {
	contest *service.Contest
	conn    net.Conn
	codec   *protocol.Codec
	logger  logging.Logger

	// user holds the session bound to this connection after a successful
	// login and until logout. Guarded by mu: the cleanup path may run
	// from the server's goroutine during shutdown.
	mu   sync.Mutex
	user *model.User

	closed atomic.Bool
}

func (w *Worker) setUser(user *model.User) {
	w.mu.Lock()
	w.user = user
	w.mu.Unlock()
}

func (w *Worker) sessionUser() *model.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.user
}

func NewWorker(contest *service.Contest, conn net.Conn, logger logging.Logger) *Worker {
	return &Worker{
		contest: contest,
		conn:    conn,
		codec:   protocol.NewCodec(conn),
		logger:  logger.With("module", "worker", "remote", conn.RemoteAddr().String()),
	}
}

// Run drives the request/response loop until the client disconnects, logs
// out, fails a login, or the server shuts the connection down. The socket
// is released on every exit path.
func (w *Worker) Run(ctx context.Context) {
	defer w.close(ctx)

	for {
		req, err := w.codec.ReadRequest()
		if err != nil {
			if errors.Is(err, protocol.ErrBadFrame) || errors.Is(err, protocol.ErrFrameTooLarge) {
				// The stream is still aligned; answer and keep serving.
				w.logger.Warn(ctx, "dropping malformed request", "error", err.Error())
				if werr := w.codec.WriteResponse(protocol.NewErrorResponse("malformed request")); werr != nil {
					return
				}
				continue
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				w.logger.Error(ctx, "reading request", "error", err.Error())
			}
			return
		}

		resp, terminate := w.handle(ctx, req)

		if err := w.codec.WriteResponse(resp); err != nil {
			w.logger.Error(ctx, "writing response", "error", err.Error())
			return
		}
		if terminate {
			return
		}
	}
}

// handle maps one request to one contest operation. Service failures are
// converted to error responses, never to connection failures. The second
// return value tells the loop to stop after replying.
func (w *Worker) handle(ctx context.Context, req *protocol.Request) (*protocol.Response, bool) {
	switch req.Kind {
	case protocol.RequestLogin:
		return w.handleLogin(ctx, req)

	case protocol.RequestLogout:
		return w.handleLogout(ctx, req)

	case protocol.RequestAddParticipant:
		payload, err := req.AddParticipant()
		if err != nil {
			return protocol.NewErrorResponse(err.Error()), false
		}
		p, err := w.contest.AddParticipant(ctx, payload.FirstName, payload.LastName, payload.Team, payload.EngineCapacity)
		if err != nil {
			return protocol.NewErrorResponse(err.Error()), false
		}
		return protocol.NewParticipantResponse(*p), false

	case protocol.RequestFindParticipantsByTeam:
		payload, err := req.FindParticipantsByTeam()
		if err != nil {
			return protocol.NewErrorResponse(err.Error()), false
		}
		found, err := w.contest.FindParticipantsByTeam(ctx, payload.Team)
		if err != nil {
			return protocol.NewErrorResponse(err.Error()), false
		}
		return protocol.NewParticipantsResponse(found), false

	case protocol.RequestFindRaces:
		races, err := w.contest.FindAllRaces(ctx)
		if err != nil {
			return protocol.NewErrorResponse(err.Error()), false
		}
		return protocol.NewRacesResponse(races), false

	case protocol.RequestFindEngineCapacities:
		capacities, err := w.contest.FindAllRaceEngineCapacities(ctx)
		if err != nil {
			return protocol.NewErrorResponse(err.Error()), false
		}
		return protocol.NewEngineCapacitiesResponse(capacities), false

	default:
		return protocol.NewErrorResponse("unsupported request kind"), false
	}
}

// handleLogin binds a session to this worker. A failed login terminates
// the connection after the error reply.
func (w *Worker) handleLogin(ctx context.Context, req *protocol.Request) (*protocol.Response, bool) {
	payload, err := req.Login()
	if err != nil {
		return protocol.NewErrorResponse(err.Error()), true
	}

	user, err := w.contest.Login(ctx, payload.Username, payload.Password, w)
	if err != nil {
		w.logger.Warn(ctx, "login failed", "username", payload.Username, "error", err.Error())
		return protocol.NewErrorResponse(err.Error()), true
	}

	w.setUser(user)
	w.logger.Info(ctx, "session opened", "username", user.Username)
	return protocol.NewUserResponse(*user), false
}

// handleLogout destroys the session and terminates the connection after
// the reply, whether or not the logout succeeded.
func (w *Worker) handleLogout(ctx context.Context, req *protocol.Request) (*protocol.Response, bool) {
	payload, err := req.Logout()
	if err != nil {
		return protocol.NewErrorResponse(err.Error()), true
	}

	if err := w.contest.Logout(ctx, payload.User); err != nil {
		return protocol.NewErrorResponse(err.Error()), true
	}

	w.setUser(nil)
	w.logger.Info(ctx, "session closed", "username", payload.User.Username)
	return protocol.NewOkResponse(), true
}

// ParticipantAdded implements service.Observer by pushing an unsolicited
// notification frame to the client. Called from the broadcaster's
// goroutine, not the worker's own.
func (w *Worker) ParticipantAdded(p model.Participant) error {
	return w.codec.WriteResponse(protocol.NewParticipantAddedResponse(p))
}

// Shutdown notifies the client that the server is closing this session,
// then closes the socket, which unblocks the worker's read loop.
func (w *Worker) Shutdown(ctx context.Context) {
	if err := w.codec.WriteResponse(protocol.NewConnectionClosedResponse()); err != nil {
		w.logger.Warn(ctx, "could not send connection_closed", "error", err.Error())
	}
	w.close(ctx)
}

func (w *Worker) close(ctx context.Context) {
	if !w.closed.CompareAndSwap(false, true) {
		return
	}
	if w.sessionUser() != nil {
		// Abnormal disconnect without a logout: free the session.
		w.contest.Disconnect(ctx, w)
	}
	if err := w.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		w.logger.Warn(ctx, "closing connection", "error", err.Error())
	}
	w.logger.Info(ctx, "client disconnected")
}
