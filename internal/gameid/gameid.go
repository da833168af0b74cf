// Package gameid generates sortable session identifiers: a UUIDv7 layout
// encoded as 26 characters of Crockford base32.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an id
const Length = 26

// RandSource supplies the random part of an id. *rand.Rand from
// math/rand/v2 satisfies it.
type RandSource interface {
	Uint64() uint64
}

// New creates an id for a session started at now. A nil src uses crypto/rand.
func New(now time.Time, src RandSource) string {
	var id [16]byte

	ms := now.UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if src != nil {
		a, b := src.Uint64(), src.Uint64()
		for i := 0; i < 8; i++ {
			id[6+i] = byte(a >> (8 * i))
		}
		id[14] = byte(b)
		id[15] = byte(b >> 8)
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("gameid: crypto/rand failed: " + err.Error())
	}

	id[6] = id[6]&0x0f | 0x70 // version 7
	id[8] = id[8]&0x3f | 0x80 // variant 10

	return encode(id)
}

// encode writes the 128 bits, left-padded with two zero bits, as 26
// five-bit groups.
func encode(data [16]byte) string {
	bit := func(k int) byte {
		k -= 2
		if k < 0 {
			return 0
		}
		return data[k/8] >> (7 - k%8) & 1
	}

	out := make([]byte, Length)
	for i := range out {
		var v byte
		for j := 0; j < 5; j++ {
			v = v<<1 | bit(i*5+j)
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Validate checks that id is well formed
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %c at position %d", r, i)
		}
	}
	return nil
}
