package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/kardex-api/pkg/jwt"
)

const (
	secret = "secreto-de-pruebas"
	issuer = "kardex-api"
)

func TestGenerateParse(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "user-1", pkgjwt.RoleWarehouse, issuer, 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, issuer, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, pkgjwt.RoleWarehouse, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "user-1", pkgjwt.RoleAdmin, issuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", issuer, token)
	assert.Error(t, err, "firma con otro secreto")

	_, err = pkgjwt.Parse(secret, "otro-emisor", token)
	assert.Error(t, err, "emisor distinto")

	expired, err := pkgjwt.Generate(secret, "user-1", pkgjwt.RoleAdmin, issuer, -5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, issuer, expired)
	assert.Error(t, err, "token expirado")

	_, err = pkgjwt.Parse(secret, issuer, "no-es-un-token")
	assert.Error(t, err)
}

func TestGenerate_Validaciones(t *testing.T) {
	_, err := pkgjwt.Generate("", "user-1", pkgjwt.RoleAdmin, issuer, 60)
	assert.Error(t, err)
	_, err = pkgjwt.Generate(secret, "", pkgjwt.RoleAdmin, issuer, 60)
	assert.Error(t, err)
}
