package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/pulseboard/internal/domain"
)

func TestThemeStoreSeededDefaults(t *testing.T) {
	s := NewThemeStore()

	assert.Equal(t, "light", s.Active())
	themes := s.List()
	assert.Len(t, themes, 2)

	light, ok := s.Get("light")
	assert.True(t, ok)
	assert.Equal(t, domain.ModeLight, light.Mode)

	dark, ok := s.Get("dark")
	assert.True(t, ok)
	assert.Equal(t, domain.ModeDark, dark.Mode)
}

func TestThemeStoreSetActiveUnknownIsNoOp(t *testing.T) {
	s := NewThemeStore()

	assert.False(t, s.SetActive("neon"))
	assert.Equal(t, "light", s.Active())

	assert.True(t, s.SetActive("dark"))
	assert.Equal(t, "dark", s.Active())
}

func TestThemeStoreCreateCustom(t *testing.T) {
	s := NewThemeStore()

	created := s.CreateCustom(domain.Theme{ID: "ignored", Name: "Neon", Mode: domain.ModeDark})
	assert.NotEqual(t, "ignored", created.ID)
	assert.Len(t, s.List(), 3)

	assert.True(t, s.SetActive(created.ID))
	assert.Equal(t, created.ID, s.Active())
}

func TestThemeStoreSeedRestoresMissingDefaults(t *testing.T) {
	s := NewThemeStore()

	// A snapshot that lost the dark seed and whose active id is gone.
	s.Seed([]domain.Theme{
		{ID: "light", Name: "Light", Mode: domain.ModeLight},
		{ID: "custom", Name: "Custom", Mode: domain.ModeDark},
	}, "vanished")

	_, hasDark := s.Get("dark")
	assert.True(t, hasDark, "seed themes are re-added")
	assert.Equal(t, "light", s.Active(), "unknown active id falls back to light")

	_, hasCustom := s.Get("custom")
	assert.True(t, hasCustom)
}
