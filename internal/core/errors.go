package core

import "errors"

var (
	// ErrSessionExists is returned when a connection id registers twice.
	ErrSessionExists = errors.New("session already registered")
	// ErrRoomNotFound is returned when a move targets an unknown room.
	ErrRoomNotFound = errors.New("room not found")
)
