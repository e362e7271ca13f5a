package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/repository"
	"github.com/qs3c/blogmind_server/internal/testutil"
)

func setupUserService(t *testing.T, store ImageStore) (*UserService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	membership := NewMembershipService(repository.NewMembershipRepository(db))
	service := NewUserService(repository.NewUserRepository(db), membership, NewUploadService(store, testConfig()))

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestUserService_GetProfile_WithMembership(t *testing.T) {
	service, db, cleanup := setupUserService(t, nil)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithUsername("profileuser"))
	testutil.TestMembership(t, db, user.ID, model.PlanPremium, 12)

	profile, err := service.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profileuser", profile.Username)
	require.NotNil(t, profile.Membership)
	assert.True(t, profile.Membership.HasPlan)
	assert.Equal(t, string(model.PlanPremium), profile.Membership.Plan)
	assert.Equal(t, 12, profile.Membership.AIBlogsLeft)
}

func TestUserService_GetProfile_ImplicitBasic(t *testing.T) {
	service, db, cleanup := setupUserService(t, nil)
	defer cleanup()

	user := testutil.TestUser(t, db)

	profile, err := service.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, profile.Membership.HasPlan)
	assert.Equal(t, string(model.PlanBasic), profile.Membership.Plan)
	assert.Zero(t, profile.Membership.AIBlogsLeft)

	_, err = service.GetProfile(context.Background(), 99999)
	assert.Equal(t, ErrUserNotFound, err)
}

func TestUserService_UpdateProfile(t *testing.T) {
	service, db, cleanup := setupUserService(t, nil)
	defer cleanup()
	ctx := context.Background()

	user := testutil.TestUser(t, db, testutil.WithUsername("original"))
	testutil.TestUser(t, db, testutil.WithUsername("taken"))

	newName := "renamed"
	bio := "hello there"
	info, err := service.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Username: &newName, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "renamed", info.Username)
	assert.Equal(t, "hello there", info.Bio)

	same := "renamed"
	_, err = service.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Username: &same})
	assert.NoError(t, err)

	taken := "taken"
	_, err = service.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Username: &taken})
	assert.Equal(t, ErrUsernameExists, err)

	_, err = service.UpdateProfile(ctx, 99999, &dto.UpdateProfileRequest{Bio: &bio})
	assert.Equal(t, ErrUserNotFound, err)
}

func TestUserService_UploadAvatar(t *testing.T) {
	store := &fakeImageStore{}
	service, db, cleanup := setupUserService(t, store)
	defer cleanup()

	user := testutil.TestUser(t, db)

	url, err := service.UploadAvatar(user.ID, bytes.NewReader(pngHeader), "avatar.png", int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/img.png", url)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, url, reloaded.AvatarURL)
}
