package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// VerificationCode returns a 6-digit one-time code.
func VerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
