package command

import (
	"crypto/rand"
	"math/big"
)

// generateVerifyCode produces a 6-digit numeric verification code, the kind
// delivered over email or SMS.
func generateVerifyCode() string {
	const digits = "0123456789"
	const length = 6

	code := make([]byte, length)
	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}
	return string(code)
}
