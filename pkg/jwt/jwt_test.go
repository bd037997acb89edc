package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "owner", "owner", "cafecraft", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "owner", claims.Username)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "cafecraft", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "owner", "owner", "cafecraft", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "owner", "owner", "cafecraft", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "owner", "owner", "cafecraft", 5)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, err = jwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestParse_AlgoritmoNoPermitido(t *testing.T) {
	c := &jwt.Claims{UserID: "u-1", Role: "owner"}
	c.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(time.Minute))
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, c).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}
