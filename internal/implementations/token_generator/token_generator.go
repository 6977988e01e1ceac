package tokengenerator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"recoverme/internal/core/domain/user"
)

const DEFAULT_TOKEN_BYTES = 32

// Generator produces hex encoded password reset tokens from crypto/rand.
type Generator struct {
	size   int
	source io.Reader
}

func NewGenerator() *Generator {
	return &Generator{size: DEFAULT_TOKEN_BYTES, source: rand.Reader}
}

func (g *Generator) GeneratePasswordResetToken() (user.PasswordResetToken, error) {
	b := make([]byte, g.size)
	if _, err := io.ReadFull(g.source, b); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	return user.PasswordResetToken(hex.EncodeToString(b)), nil
}
