// Package service implements the contest domain services and the session
// registry that fans out live updates to logged-in clients.
package service

import "github.com/culbec/motocontest/internal/model"

// Observer is a server-side handle tied to one client connection. The
// registry uses it to push notifications; a connection worker implements
// it by writing frames to its own socket.
type Observer interface {
	ParticipantAdded(participant model.Participant) error
}
