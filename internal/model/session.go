package model

import "time"

type state int

const (
	DefaultState state = iota
	ExpectingResetConfirmation
)

type Session struct {
	State     state     `json:"state"`
	ExpiresAt time.Time `json:"expiresAt"`
}
