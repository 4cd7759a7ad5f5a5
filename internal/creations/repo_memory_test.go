package creations

import (
	"context"
	"errors"
	"testing"
)

func TestToggleLikeIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	cr, err := repo.Create(ctx, Creation{
		UserID:  "owner",
		Prompt:  "a cat",
		Content: "https://cdn.example/cat.png",
		Type:    TypeImage,
		Publish: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, err := repo.ToggleLike(ctx, cr.ID, "user-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !liked.LikedBy("user-2") {
		t.Fatalf("expected user-2 in likes after first toggle, got %v", liked.Likes)
	}

	// A second toggle by the same user restores the original set.
	unliked, err := repo.ToggleLike(ctx, cr.ID, "user-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if unliked.LikedBy("user-2") {
		t.Fatalf("expected user-2 removed after second toggle, got %v", unliked.Likes)
	}
	if len(unliked.Likes) != 0 {
		t.Fatalf("expected empty likes, got %v", unliked.Likes)
	}
}

func TestToggleLikeContainsEachUserOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	cr, err := repo.Create(ctx, Creation{UserID: "owner", Type: TypeImage, Publish: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.ToggleLike(ctx, cr.ID, "user-2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := repo.ToggleLike(ctx, cr.ID, "user-3"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, err := repo.ToggleLike(ctx, cr.ID, "user-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.LikedBy("user-2") {
		t.Fatalf("expected user-2 removed, got %v", got.Likes)
	}
	if !got.LikedBy("user-3") {
		t.Fatalf("expected user-3 retained, got %v", got.Likes)
	}
}

func TestToggleLikeUnknownID(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.ToggleLike(context.Background(), 99, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublishedFiltersUnpublished(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	if _, err := repo.Create(ctx, Creation{UserID: "u1", Type: TypeImage, Publish: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, Creation{UserID: "u1", Type: TypeArticle}); err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := repo.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 || !published[0].Publish {
		t.Fatalf("expected only the published creation, got %+v", published)
	}
}
