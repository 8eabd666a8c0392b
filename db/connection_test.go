package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRejectsUnopenablePath(t *testing.T) {
	// A directory can never open as a database file; the failure
	// surfaces when the pragmas force a real connection.
	db, err := connection(t.TempDir())
	require.Error(t, err)
	assert.Nil(t, db)
}
