package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingSession.Error(), ErrMissingSettingsService.Error())
	assert.Contains(t, ErrMissingSession.Error(), "session")
	assert.Contains(t, ErrMissingSettingsService.Error(), "settings service")
}
