package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateDisplayName(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.register(t, "user@example.com")

	profile, err := e.profiles.UpdateDisplayName(ctx, user.ID, "  Sanne  ")
	require.NoError(t, err)
	assert.Equal(t, "Sanne", profile.DisplayName)

	_, err = e.profiles.UpdateDisplayName(ctx, user.ID, " ")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = e.profiles.UpdateDisplayName(ctx, user.ID, strings.Repeat("a", 101))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadAvatar(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.register(t, "user@example.com")

	profile, err := e.profiles.UploadAvatar(ctx, user.ID, *pngUpload("me.png"))
	require.NoError(t, err)
	require.NotNil(t, profile.AvatarURL)
	assert.True(t, strings.HasPrefix(*profile.AvatarURL, "http://localhost/uploads/profiles/"+user.ID+".png?t="))
	assert.True(t, e.storage.Has("profiles/"+user.ID+".png"))

	_, err = e.profiles.UploadAvatar(ctx, user.ID, FileUpload{Filename: "me.bmp", Body: strings.NewReader("BM")})
	assert.ErrorIs(t, err, ErrInvalidFileType)
}
