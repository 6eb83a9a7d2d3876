package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURLPrecedence(t *testing.T) {
	t.Setenv(EnvTestDBURL, "")
	t.Setenv(EnvDatabaseURL, "")
	assert.Empty(t, DatabaseURL())

	t.Setenv(EnvDatabaseURL, "postgres://app@localhost/catalog")
	assert.Equal(t, "postgres://app@localhost/catalog", DatabaseURL())

	t.Setenv(EnvTestDBURL, "postgres://test@localhost/catalog_test")
	assert.Equal(t, "postgres://test@localhost/catalog_test", DatabaseURL())
}

func TestIsCI(t *testing.T) {
	for _, name := range ciVars {
		t.Setenv(name, "")
	}
	assert.False(t, IsCI())

	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, IsCI())
}

func TestOpenSkipsWithoutDatabase(t *testing.T) {
	for _, name := range append(ciVars, EnvTestDBURL, EnvDatabaseURL) {
		t.Setenv(name, "")
	}

	ran := t.Run("inner", func(t *testing.T) {
		Open(t)
		t.Error("Open must skip without a database URL")
	})
	assert.True(t, ran, "a skipped subtest counts as passed")
}
