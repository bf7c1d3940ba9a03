// Package protocol defines the JSON messages spoken between the episode
// server and its clients. Every message carries a type tag; BaseMessage
// decodes just the tag so handlers can route before unmarshalling the full
// payload. The schemas under schemas/ mirror these structs and tests keep
// the two in sync.
package protocol

import (
	"encoding/json"

	"craftgrid.ai/internal/sim/session"
)

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeReset   = "RESET"
	TypeAct     = "ACT"
	TypeStep    = "STEP"
	TypeState   = "STATE"
	TypeError   = "ERROR"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// Hello is the client's opening message.
type Hello struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
	Seed            uint64 `json:"seed,omitempty"`
	Profile         string `json:"profile,omitempty"`
}

// Welcome answers a Hello with the episode the server created.
type Welcome struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	EpisodeID       string   `json:"episode_id"`
	Seed            uint64   `json:"seed"`
	Actions         []string `json:"actions"`
	MaterialDigest  string   `json:"material_digest"`
	RecipeDigest    string   `json:"recipe_digest"`
}

// Reset asks for a fresh episode on the same connection.
type Reset struct {
	Type string `json:"type"`
	Seed uint64 `json:"seed,omitempty"`
}

// Act submits one action for the next tick.
type Act struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

// Step reports the outcome of an Act together with the new state.
type Step struct {
	Type    string          `json:"type"`
	Outcome session.Outcome `json:"outcome"`
	State   session.State   `json:"state"`
}

// StateMsg is a full state report, sent after WELCOME and on request.
type StateMsg struct {
	Type  string        `json:"type"`
	State session.State `json:"state"`
}

// Error reports a rejected message. The connection stays open unless the
// error is fatal.
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Fatal   bool   `json:"fatal,omitempty"`
}

func NewError(code, msg string) Error {
	return Error{Type: TypeError, Code: code, Message: msg}
}
