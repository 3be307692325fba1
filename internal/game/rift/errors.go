package rift

import "errors"

// Sentinel errors for the dimensional rift.
var (
	ErrNoParty          = errors.New("player is not in a party")
	ErrNotPartyLeader   = errors.New("player is not the party leader")
	ErrAlreadyInRift    = errors.New("party is already in the rift")
	ErrPartyTooSmall    = errors.New("party is too small")
	ErrRiftFull         = errors.New("rift is full")
	ErrNotInWaitingRoom = errors.New("party member is outside the waiting room")
	ErrNoFragments      = errors.New("not enough dimensional fragments")
	ErrTierOutOfRange   = errors.New("rift tier out of range")
	ErrRiftBusy         = errors.New("rift has live sessions")
	ErrInvalidBounds    = errors.New("room bounds are inverted")
	ErrNoWaitingRoom    = errors.New("waiting room is not loaded")
)
