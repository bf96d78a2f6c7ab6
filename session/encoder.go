package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SnapshotVersion is the envelope version written by [EncodeSnapshot].
const SnapshotVersion = 0

var (
	// ErrSnapshotCorrupt is returned for stored values that are not a
	// snapshot envelope.
	ErrSnapshotCorrupt = errors.New("session snapshot corrupt")
	// ErrSnapshotVersion is returned for envelopes written by a newer
	// version.
	ErrSnapshotVersion = errors.New("session snapshot version unsupported")
)

// Snapshot is the persisted part of [State].
type Snapshot struct {
	Token           string
	User            *UserProfile
	IsAuthenticated bool
}

type persistedState struct {
	Token           *string      `json:"token"`
	User            *UserProfile `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type envelope struct {
	State   *persistedState `json:"state"`
	Version *int            `json:"version"`
}

// EncodeSnapshot renders the persisted fields of s as
// {"state":{"token":...,"user":...,"isAuthenticated":...},"version":0}.
// An empty token is written as null.
func EncodeSnapshot(s State) (string, error) {
	ps := persistedState{
		User:            s.User,
		IsAuthenticated: s.IsAuthenticated,
	}
	if s.Token != "" {
		tok := s.Token
		ps.Token = &tok
	}
	v := SnapshotVersion
	data, err := json.Marshal(envelope{State: &ps, Version: &v})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSnapshot parses a stored envelope. A missing version is read as 0.
func DecodeSnapshot(raw string) (Snapshot, error) {
	if strings.TrimSpace(raw) == "" {
		return Snapshot{}, fmt.Errorf("%w: empty", ErrSnapshotCorrupt)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if env.State == nil {
		return Snapshot{}, fmt.Errorf("%w: missing state", ErrSnapshotCorrupt)
	}
	if env.Version != nil && *env.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, *env.Version)
	}

	out := Snapshot{
		User:            env.State.User,
		IsAuthenticated: env.State.IsAuthenticated,
	}
	if env.State.Token != nil {
		out.Token = *env.State.Token
	}
	return out, nil
}
