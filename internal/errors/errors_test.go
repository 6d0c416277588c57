package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	plain := NotFound("bike", "commuter")
	assert.Equal(t, "[NOT_FOUND] bike not found: commuter", plain.Error())

	wrapped := CatalogUnavailable("links.json", fmt.Errorf("permission denied"))
	assert.Equal(t, "[CATALOG_UNAVAILABLE] catalog links.json could not be loaded: permission denied", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "permission denied")
}

func TestIsType(t *testing.T) {
	err := Input("front gears must be between 1 and 3")

	assert.True(t, err.OfType(TypeInput))
	assert.False(t, err.OfType(TypeConfig))
	assert.True(t, IsType(err, TypeInput))
	assert.False(t, IsType(err, TypeConfig))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeInput))
}

func TestIsTypeWrapped(t *testing.T) {
	err := fmt.Errorf("open store: %w", Config("bad backend", nil))

	assert.True(t, IsType(err, TypeConfig))
	assert.Equal(t, TypeConfig, TypeOf(err))
	assert.Equal(t, TypeInternal, TypeOf(fmt.Errorf("plain")))
	assert.False(t, IsType(nil, TypeConfig))

	internal := fmt.Errorf("load: %w", Internal("decode bikes file", fmt.Errorf("unexpected EOF")))
	assert.Equal(t, TypeInternal, TypeOf(internal))
	assert.Contains(t, internal.Error(), "unexpected EOF")
}
