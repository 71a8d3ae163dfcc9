package utils

import (
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	nanoidPattern = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// ValidNanoID reports whether id could have been produced by NanoID.
func ValidNanoID(id string) bool {
	return len(id) == NanoidSize && nanoidPattern.MatchString(id)
}
