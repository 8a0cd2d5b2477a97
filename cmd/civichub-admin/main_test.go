package main

import (
	"bytes"
	"encoding/base64"
	"testing"

	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/app/system/indexes"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	a, err := generateKey()
	require.NoError(t, err)
	b, err := generateKey()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.NotEqual(t, a, b)
}

func TestGenKeyCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"genkey"})
	require.NoError(t, rootCmd.Execute())
	assert.Greater(t, len(bytes.TrimSpace(out.Bytes())), 80)
}

func TestAddUser_SetRole_ResetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))

	u, err := addUser(ctx, db, "Nia@Example.com", "Nia Admin", "worker", "copper-kettle-5")
	require.NoError(t, err)
	assert.Equal(t, "nia@example.com", u.Email)
	assert.Equal(t, models.RoleWorker, u.Role)

	_, err = addUser(ctx, db, "nia@example.com", "Again", "worker", "copper-kettle-5")
	assert.ErrorIs(t, err, userstore.ErrDuplicateEmail)

	from, err := setRole(ctx, db, "nia@example.com", "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, from)

	require.NoError(t, resetPassword(ctx, db, "nia@example.com", "silver-brook-8"))

	got, err := userstore.New(db).GetByEmail(ctx, "nia@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.True(t, authutil.CheckPassword("silver-brook-8", got.PasswordHash))
}

func TestAddUser_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := addUser(ctx, db, "a@example.com", "A", "user", "123456")
	assert.Error(t, err, "common password")

	_, err = addUser(ctx, db, "b@example.com", "B", "superuser", "copper-kettle-5")
	assert.Error(t, err, "unknown role")

	_, err = setRole(ctx, db, "missing@example.com", "admin")
	assert.EqualError(t, err, "no user with email missing@example.com")
}
