/*
Package randx provides functions for generating cryptographically secure random
identifiers for rooms and messages.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// RoomIDSuffixLength is the length of the random part of a generated room ID.
	RoomIDSuffixLength = 8
)

// RoomID generates a room identifier of the form "room-XXXXXXXX" using a
// cryptographically secure random number generator.
func RoomID() (string, error) {
	result := make([]byte, RoomIDSuffixLength)

	for i := 0; i < RoomIDSuffixLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return "room-" + string(result), nil
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}
