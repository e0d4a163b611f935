package server

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// newRoomCode returns a zero-padded 4-digit code drawn uniformly from
// [0,9999]. Collisions are handled by the store's bounded retry loop.
func newRoomCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "0000"
	}
	return fmt.Sprintf("%04d", binary.BigEndian.Uint64(buf)%10000)
}

// decideRoundOutcome flips an unbiased coin for whether the speaker is
// asked to tell their real statement or fabricate one.
func decideRoundOutcome() string {
	buf := make([]byte, 1)
	if _, err := rand.Read(buf); err != nil {
		return choiceTruth
	}
	if buf[0]%2 == 0 {
		return choiceTruth
	}
	return choiceLie
}
