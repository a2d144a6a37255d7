package tag

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewTagService(NewTagRepository(db))

	lunch, err := svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Lunch", Color: "#49b64e", Slug: "lunch"})
	require.NoError(t, err)
	assert.Equal(t, "#49B64E", lunch.Color)

	_, err = svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Lunch again", Color: "#000000", Slug: "lunch"})
	assert.ErrorIs(t, err, domain.ErrTagSlugExists)

	_, err = svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	require.NoError(t, err)

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Lunch", tags[1].Name)

	got, err := svc.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, lunch, got)

	_, err = svc.GetTag(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
