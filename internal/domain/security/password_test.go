package security_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/security"
)

func TestValidatePassword_Valida(t *testing.T) {
	assert.NoError(t, security.ValidatePassword("CafeCraft#Owner1"))
}

func TestValidatePassword_ReportaCadaRegla(t *testing.T) {
	err := security.ValidatePassword("corta")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWeakPassword))

	var pe *security.PolicyError
	require.True(t, errors.As(err, &pe))
	// longitud, mayúscula, número, especial
	assert.Len(t, pe.Violations, 4)
}

func TestValidatePassword_SinEspecial(t *testing.T) {
	err := security.ValidatePassword("CafeCraftOwner1")
	var pe *security.PolicyError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{"debe incluir un carácter especial"}, pe.Violations)
}

func TestPasswordStrength(t *testing.T) {
	assert.Equal(t, 5, security.PasswordStrength("CafeCraft#Owner1"))
	assert.Equal(t, 1, security.PasswordStrength("corta"))
}

func TestHashYCheck(t *testing.T) {
	hash, err := security.HashPassword("CafeCraft#Owner1")
	require.NoError(t, err)
	assert.NotEqual(t, "CafeCraft#Owner1", hash)
	assert.True(t, security.CheckPassword(hash, "CafeCraft#Owner1"))
	assert.False(t, security.CheckPassword(hash, "otra"))
}
