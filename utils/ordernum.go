package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// OrderNumber builds the customer facing order number AR<4 hex>C<seq>.
// Uniqueness comes from seq; the random part only makes numbers harder to guess.
func OrderNumber(seq int64) (string, error) {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("order number: %w", err)
	}
	return fmt.Sprintf("AR%sC%d", hex.EncodeToString(b), seq), nil
}
