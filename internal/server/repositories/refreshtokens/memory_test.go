package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, &models.RefreshToken{Token: "a1", UserID: "alice", Expires: exp}))
	require.NoError(t, repo.Create(ctx, &models.RefreshToken{Token: "a2", UserID: "alice", Expires: exp}))
	require.NoError(t, repo.Create(ctx, &models.RefreshToken{Token: "b1", UserID: "bob", Expires: exp}))

	got, err := repo.Find(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)

	require.NoError(t, repo.Delete(ctx, "a1"))
	_, err = repo.Find(ctx, "a1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, repo.Delete(ctx, "a1"))

	require.NoError(t, repo.DeleteByUser(ctx, "alice"))
	_, err = repo.Find(ctx, "a2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Find(ctx, "b1")
	assert.NoError(t, err)
}
