package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRegistry(t *testing.T) {
	r, err := NewProjectRegistry(
		NewMemoryProjectStore("buffr-host"),
		NewMemoryProjectStore("buffr-pay"),
		NewMemoryProjectStore("buffr-lend"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"buffr-host", "buffr-pay", "buffr-lend"}, r.Names())

	s, ok := r.Get(" Buffr-Pay ")
	require.True(t, ok)
	assert.Equal(t, "buffr-pay", s.Name())

	stores, err := r.Resolve([]string{"buffr-lend", "BUFFR-HOST"})
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "buffr-lend", stores[0].Name())
	assert.Equal(t, "buffr-host", stores[1].Name())

	_, err = r.Resolve([]string{"buffr-lend", "BUFFR-HOST", " Buffr-Lend"})
	var dup *DuplicateProjectError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, " Buffr-Lend", dup.Name)

	_, err = r.Resolve([]string{"buffr-host", "buffr-sign"})
	var unknown *UnknownProjectError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "buffr-sign", unknown.Name)
}

func TestProjectRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewProjectRegistry(NewMemoryProjectStore("a"), NewMemoryProjectStore("A"))
	assert.Error(t, err)

	_, err = NewProjectRegistry(NewMemoryProjectStore(" "))
	assert.Error(t, err)
}
