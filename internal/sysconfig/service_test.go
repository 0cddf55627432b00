package sysconfig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

func TestValidate(t *testing.T) {
	base := Config{
		CompanyName: "Kestrel S.A.",
		Email:       "info@kestrel.example",
		Phone:       "+54 341 555-0100",
	}
	require.NoError(t, validate(base))

	t.Run("company name required", func(t *testing.T) {
		cfg := base
		cfg.CompanyName = "   "
		require.ErrorIs(t, validate(cfg), httpx.ErrValidation)
	})

	t.Run("phone required", func(t *testing.T) {
		cfg := base
		cfg.Phone = ""
		require.ErrorIs(t, validate(cfg), httpx.ErrValidation)
	})

	t.Run("email must parse", func(t *testing.T) {
		cfg := base
		cfg.Email = "not-an-address"
		require.ErrorIs(t, validate(cfg), httpx.ErrValidation)
	})
}
