package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{
		"agent", "analyze", "deadcode", "simplify", "refactor",
		"convert", "deps", "log", "rollback", "ignore", "init", "version",
	}
	for _, want := range expected {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestIsValidKind(t *testing.T) {
	assert.True(t, isValidKind("cleanup"))
	assert.True(t, isValidKind("custom"))
	assert.True(t, isValidKind("performance"))
	assert.False(t, isValidKind("refurbish"))
	assert.False(t, isValidKind(""))
}
