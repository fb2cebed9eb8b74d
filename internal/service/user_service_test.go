package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/social-core/internal/model"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.userSvc.Create(ctx, "alice", "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, model.RoleUser, u.Role)
	// 密码只存散列
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("supersecret")))

	// 用户名大小写不敏感去重
	_, err = env.userSvc.Create(ctx, "ALICE", "other@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
