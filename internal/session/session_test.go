package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/horizons-app/horizons/internal/model"
)

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, From(ctx))
	assert.Empty(t, UserID(ctx))

	s := New(&model.User{ID: "u1", Email: "a@example.com"}, &model.Profile{ID: "u1", IsAppAdmin: true})
	ctx = With(ctx, s)

	assert.Same(t, s, From(ctx))
	assert.Equal(t, "u1", UserID(ctx))
	assert.True(t, From(ctx).IsAdmin)
}

func TestNewWithoutProfile(t *testing.T) {
	s := New(&model.User{ID: "u1"}, nil)
	assert.False(t, s.IsAdmin)
}

func TestCSRFToken(t *testing.T) {
	ctx := WithCSRFToken(context.Background(), "tok")
	assert.Equal(t, "tok", CSRFToken(ctx))
	assert.Empty(t, CSRFToken(context.Background()))
}
