package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfigEnvs(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_DATABASE", "uniassist")
	t.Setenv("DB_USERNAME", "user")
	t.Setenv("DB_PASSWORD", "password")
	t.Setenv("DB_SCHEMA", "public")
}

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Valid configuration from environment", func(t *testing.T) {
		setConfigEnvs(t)

		config, err := NewDatabaseConfiguration()
		assert.NoError(t, err, "Expected NewDatabaseConfiguration to not return an error")
		require.NotNil(t, config)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "5432", config.Port)
		assert.Equal(t, "uniassist", config.Name)
		assert.Equal(t, "user", config.Username)
		assert.Equal(t, "password", config.Password)
		assert.Equal(t, "public", config.Schema)
	})

	t.Run("Missing host fails", func(t *testing.T) {
		setConfigEnvs(t)
		t.Setenv("DB_HOST", "")

		_, err := NewDatabaseConfiguration()
		assert.Error(t, err, "Expected error when DB_HOST is missing")
	})

	t.Run("Schema defaults to public", func(t *testing.T) {
		setConfigEnvs(t)
		t.Setenv("DB_SCHEMA", "")

		config, err := NewDatabaseConfiguration()
		assert.NoError(t, err)
		assert.Equal(t, "public", config.Schema, "Expected schema to default to public")
	})
}
