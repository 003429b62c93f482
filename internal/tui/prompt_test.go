package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldPrompt_DisabledInCI(t *testing.T) {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Run(envVar, func(t *testing.T) {
			t.Setenv(envVar, "true")
			assert.False(t, ShouldPrompt())
		})
	}
}

func TestPromptForSelect_NoOptions(t *testing.T) {
	_, err := PromptForSelect("Choose:", []string{})
	require.Error(t, err)
}

func TestPromptCredentials_NothingToAsk(t *testing.T) {
	email, password := "vendor@acme.com", "secret"

	require.NoError(t, PromptCredentials(&email, &password))
	assert.Equal(t, "vendor@acme.com", email)
	assert.Equal(t, "secret", password)
}

func TestRequired(t *testing.T) {
	check := required("email")

	assert.Error(t, check("  "))
	assert.NoError(t, check("a@b.c"))
}
