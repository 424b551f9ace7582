// Package protocol defines the wire format spoken between the contest
// server and its clients: Request/Response envelopes with a kind
// discriminator and a kind-specific payload, framed as length-prefixed
// JSON messages on a byte stream.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/culbec/motocontest/internal/model"
)

// RequestKind discriminates request envelopes.
type RequestKind string

const (
	RequestLogin                  RequestKind = "login"
	RequestLogout                 RequestKind = "logout"
	RequestAddParticipant         RequestKind = "add_participant"
	RequestFindParticipantsByTeam RequestKind = "find_participants_by_team"
	RequestFindRaces              RequestKind = "find_races"
	RequestFindEngineCapacities   RequestKind = "find_engine_capacities"
)

// ResponseKind discriminates response envelopes. Ok and Error are paired
// with a previously issued request; ParticipantAdded and ConnectionClosed
// are unsolicited frames pushed by the server.
type ResponseKind string

const (
	ResponseOk               ResponseKind = "ok"
	ResponseError            ResponseKind = "error"
	ResponseParticipantAdded ResponseKind = "participant_added"
	ResponseConnectionClosed ResponseKind = "connection_closed"
)

// Request is the envelope for every client-to-server message.
type Request struct {
	Kind    RequestKind     `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the envelope for every server-to-client message.
type Response struct {
	Kind    ResponseKind    `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Unsolicited reports whether the response is a server-pushed frame rather
// than the answer to a request.
func (r *Response) Unsolicited() bool {
	return r.Kind == ResponseParticipantAdded || r.Kind == ResponseConnectionClosed
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutPayload struct {
	User model.User `json:"user"`
}

type AddParticipantPayload struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Team           string `json:"team"`
	EngineCapacity int    `json:"engine_capacity"`
}

type FindParticipantsByTeamPayload struct {
	Team string `json:"team"`
}

type UserPayload struct {
	User model.User `json:"user"`
}

type ParticipantPayload struct {
	Participant model.Participant `json:"participant"`
}

type ParticipantsPayload struct {
	Participants []model.Participant `json:"participants"`
}

type RacesPayload struct {
	Races []model.Race `json:"races"`
}

type EngineCapacitiesPayload struct {
	EngineCapacities []int `json:"engine_capacities"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func marshalPayload(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		// All payload types marshal cleanly; a failure here is a
		// programming error.
		panic(fmt.Sprintf("protocol: marshaling payload: %v", err))
	}
	return b
}

func NewLoginRequest(username, password string) *Request {
	return &Request{
		Kind:    RequestLogin,
		Payload: marshalPayload(LoginPayload{Username: username, Password: password}),
	}
}

func NewLogoutRequest(user model.User) *Request {
	return &Request{
		Kind:    RequestLogout,
		Payload: marshalPayload(LogoutPayload{User: user}),
	}
}

func NewAddParticipantRequest(firstName, lastName, team string, engineCapacity int) *Request {
	return &Request{
		Kind: RequestAddParticipant,
		Payload: marshalPayload(AddParticipantPayload{
			FirstName:      firstName,
			LastName:       lastName,
			Team:           team,
			EngineCapacity: engineCapacity,
		}),
	}
}

func NewFindParticipantsByTeamRequest(team string) *Request {
	return &Request{
		Kind:    RequestFindParticipantsByTeam,
		Payload: marshalPayload(FindParticipantsByTeamPayload{Team: team}),
	}
}

func NewFindRacesRequest() *Request {
	return &Request{Kind: RequestFindRaces}
}

func NewFindEngineCapacitiesRequest() *Request {
	return &Request{Kind: RequestFindEngineCapacities}
}

func NewOkResponse() *Response {
	return &Response{Kind: ResponseOk}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Kind:    ResponseError,
		Payload: marshalPayload(ErrorPayload{Message: message}),
	}
}

func NewUserResponse(user model.User) *Response {
	return &Response{
		Kind:    ResponseOk,
		Payload: marshalPayload(UserPayload{User: user}),
	}
}

func NewParticipantResponse(p model.Participant) *Response {
	return &Response{
		Kind:    ResponseOk,
		Payload: marshalPayload(ParticipantPayload{Participant: p}),
	}
}

func NewParticipantsResponse(ps []model.Participant) *Response {
	return &Response{
		Kind:    ResponseOk,
		Payload: marshalPayload(ParticipantsPayload{Participants: ps}),
	}
}

func NewRacesResponse(races []model.Race) *Response {
	return &Response{
		Kind:    ResponseOk,
		Payload: marshalPayload(RacesPayload{Races: races}),
	}
}

func NewEngineCapacitiesResponse(capacities []int) *Response {
	return &Response{
		Kind:    ResponseOk,
		Payload: marshalPayload(EngineCapacitiesPayload{EngineCapacities: capacities}),
	}
}

func NewParticipantAddedResponse(p model.Participant) *Response {
	return &Response{
		Kind:    ResponseParticipantAdded,
		Payload: marshalPayload(ParticipantPayload{Participant: p}),
	}
}

func NewConnectionClosedResponse() *Response {
	return &Response{Kind: ResponseConnectionClosed}
}

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, fmt.Errorf("%w: missing payload", ErrBadFrame)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return v, nil
}

func (r *Request) Login() (LoginPayload, error) {
	return decodePayload[LoginPayload](r.Payload)
}

func (r *Request) Logout() (LogoutPayload, error) {
	return decodePayload[LogoutPayload](r.Payload)
}

func (r *Request) AddParticipant() (AddParticipantPayload, error) {
	return decodePayload[AddParticipantPayload](r.Payload)
}

func (r *Request) FindParticipantsByTeam() (FindParticipantsByTeamPayload, error) {
	return decodePayload[FindParticipantsByTeamPayload](r.Payload)
}

func (r *Response) User() (model.User, error) {
	p, err := decodePayload[UserPayload](r.Payload)
	return p.User, err
}

func (r *Response) Participant() (model.Participant, error) {
	p, err := decodePayload[ParticipantPayload](r.Payload)
	return p.Participant, err
}

func (r *Response) Participants() ([]model.Participant, error) {
	p, err := decodePayload[ParticipantsPayload](r.Payload)
	return p.Participants, err
}

func (r *Response) Races() ([]model.Race, error) {
	p, err := decodePayload[RacesPayload](r.Payload)
	return p.Races, err
}

func (r *Response) EngineCapacities() ([]int, error) {
	p, err := decodePayload[EngineCapacitiesPayload](r.Payload)
	return p.EngineCapacities, err
}

// ErrorMessage returns the message carried by an error response, or a
// generic fallback when the payload is absent or malformed.
func (r *Response) ErrorMessage() string {
	p, err := decodePayload[ErrorPayload](r.Payload)
	if err != nil || p.Message == "" {
		return "unknown server error"
	}
	return p.Message
}
