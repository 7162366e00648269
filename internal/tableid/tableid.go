// Package tableid generates sortable identifiers for table sessions,
// used to correlate log lines from one sitting.
package tableid

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Crockford's base32 alphabet, lowercased. No i, l, o or u, so ids are
// unambiguous when read back out of a log file.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of a table session id: 10 timestamp characters followed by 16
// random characters.
const Length = 26

// Generate creates a new table session id. The leading characters
// encode the millisecond timestamp, so ids sort by creation time.
func Generate() string {
	buf := make([]byte, Length)

	// 50 bits of timestamp, 5 bits per character.
	now := time.Now().UnixMilli()
	for i := 9; i >= 0; i-- {
		buf[i] = alphabet[now&0x1f]
		now >>= 5
	}

	var random [16]byte
	if _, err := rand.Read(random[:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	for i, b := range random {
		buf[10+i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf)
}

// Validate checks that an id has the right length and alphabet
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("table id must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !validChar(byte(char)) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

func validChar(c byte) bool {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == c {
			return true
		}
	}
	return false
}
