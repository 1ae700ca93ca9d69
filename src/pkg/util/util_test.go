package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFlagName(t *testing.T) {
	assert.Equal(t, "--image", normalizeFlagName("image"))
	assert.Equal(t, "--image", normalizeFlagName("-image"))
	assert.Equal(t, "--image", normalizeFlagName(" --image "))
}

func TestMissingFlags(t *testing.T) {
	t.Cleanup(func() { RequiredFlags = map[*string]string{} })

	image, out, input := "", "  ", "./raw.txt"
	RequiredFlag(&image, "image")
	RequiredFlag(&out, "-out")
	RequiredFlag(&input, "input")

	assert.Equal(t, []string{"--image", "--out"}, MissingFlags())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3.5, 0, 255))
	assert.Equal(t, 255.0, Clamp(300.0, 0, 255))
	assert.Equal(t, 42, Clamp(42, 0, 255))
}

func TestRoundToByte(t *testing.T) {
	assert.Equal(t, uint8(0), RoundToByte(-12))
	assert.Equal(t, uint8(128), RoundToByte(127.5))
	assert.Equal(t, uint8(255), RoundToByte(1e6))
}
