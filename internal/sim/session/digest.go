package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest returns a hex sha256 over the full exported state, minus the
// episode id so two sessions replaying the same seed and actions digest
// identically. This is the value determinism checks and replay
// verification compare tick by tick.
func (s *Session) Digest() string {
	exp := s.Export()
	exp.EpisodeID = ""
	b, err := json.Marshal(exp)
	if err != nil {
		panic(fmt.Sprintf("session: marshal digest: %v", err))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
