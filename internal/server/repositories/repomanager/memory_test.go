package repomanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager(t *testing.T) {
	var m RepositoryManager = NewMemoryRepositoryManager()

	require.NoError(t, m.RunMigrations(context.Background()))
	require.NotNil(t, m.Users())
	assert.Same(t, m.Users(), m.Users())
	assert.NoError(t, m.Close())
}
