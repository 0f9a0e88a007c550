package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, systemPrompt(false), "expert SQL query generator")
	assert.NotContains(t, systemPrompt(false), "READ-ONLY")

	readonly := systemPrompt(true)
	assert.Contains(t, readonly, "READ-ONLY")
	assert.Contains(t, readonly, "ONLY SELECT statements")
}

func TestUserPrompt(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		p := userPrompt("how many users", "", false)
		assert.Contains(t, p, "Question: how many users")
		assert.NotContains(t, p, "SELECT statements")
	})

	t.Run("readonly", func(t *testing.T) {
		p := userPrompt("how many users", "", true)
		assert.Contains(t, p, "Question: how many users")
		assert.Contains(t, p, "Only use SELECT statements")
	})

	t.Run("schema info takes precedence over readonly", func(t *testing.T) {
		p := userPrompt("how many users", "users(id, name)", true)
		assert.Contains(t, p, "users(id, name)")
		assert.Contains(t, p, "Database Schema Information")
		assert.NotContains(t, p, "Only use SELECT statements")
	})
}

func TestValidationPrompt(t *testing.T) {
	p := validationPrompt("SELECT 1", false)
	assert.Contains(t, p, "SELECT 1")
	assert.Contains(t, p, "validator and corrector")

	p = validationPrompt("SELECT 1", true)
	assert.Contains(t, p, "SELECT 1")
	assert.Contains(t, p, "read-only operations")
}

func TestExplanationPrompt(t *testing.T) {
	p := explanationPrompt("SELECT * FROM users")
	assert.Contains(t, p, "SELECT * FROM users")
	assert.Contains(t, p, "Explain the following SQL query")
}
