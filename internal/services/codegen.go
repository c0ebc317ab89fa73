package services

import (
	"fmt"
	"math/rand"
	"strings"
)

// CodeCharset is the alphabet shared by group and pet codes. Codes are stored
// uppercase and compared case-insensitively on lookup.
const CodeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// GroupCodeLength is the length of group sharing codes.
	GroupCodeLength = 6
	// PetCodeLength is the length of pet sharing codes.
	PetCodeLength = 7
	// maxCodeAttempts bounds the unique-code search. Collisions are rare at
	// these lengths, so hitting the bound means something is operationally
	// wrong and the caller must hear about it.
	maxCodeAttempts = 10
)

// RandomCodeFunc produces a pseudo-random code of the given length drawn from
// charset. Injected so tests can supply a deterministic sequence to exercise
// the collision/retry path.
type RandomCodeFunc func(charset string, length int) string

// CodeGenerator produces short random alphanumeric sharing codes and retries
// on collision. Codes are not cryptographically strong; they only make pet and
// group identifiers non-enumerable, they are not security capability tokens.
type CodeGenerator struct {
	random RandomCodeFunc
}

// NewCodeGenerator creates a CodeGenerator backed by math/rand.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{random: randomCode}
}

// NewCodeGeneratorWithRandom creates a CodeGenerator with a custom random
// source. Used by tests.
func NewCodeGeneratorWithRandom(random RandomCodeFunc) *CodeGenerator {
	return &CodeGenerator{random: random}
}

// Generate returns a single random code of the given length.
func (g *CodeGenerator) Generate(length int) string {
	return g.random(CodeCharset, length)
}

// GenerateUnique draws codes until exists reports no collision, or the attempt
// budget is spent. Each attempt is an independent draw. Returns ErrCodeExhausted
// (wrapped) after maxCodeAttempts consecutive collisions, never a duplicate.
func (g *CodeGenerator) GenerateUnique(length int, exists func(code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := g.random(CodeCharset, length)
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeExhausted, maxCodeAttempts)
}

func randomCode(charset string, length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(charset[rand.Intn(len(charset))])
	}
	return b.String()
}
