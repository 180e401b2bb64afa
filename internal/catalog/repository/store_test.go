package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/apperr"
)

func TestStoreCurrentBeforeLoad(t *testing.T) {
	_, err := NewStore().Current()
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestStoreReplaceSwapsWholesale(t *testing.T) {
	store := NewStore()
	first := domain.NewSnapshot([]domain.Product{{ProductName: "A"}}, nil, "one", time.Now())
	second := domain.NewSnapshot([]domain.Product{{ProductName: "B"}, {ProductName: "C"}}, nil, "two", time.Now())

	if prev := store.Replace(first); prev != nil {
		t.Fatalf("expected no previous snapshot")
	}
	held, _ := store.Current()

	if prev := store.Replace(second); prev != first {
		t.Fatalf("expected previous snapshot to be returned")
	}
	if held.Len() != 1 {
		t.Fatalf("expected held snapshot to stay unchanged, got %d rows", held.Len())
	}
	current, err := store.Current()
	if err != nil || current.Source() != "two" {
		t.Fatalf("expected second snapshot to be current, got %v %v", current, err)
	}
}

func TestFileSourceMissing(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}
	if _, err := src.Open(context.Background()); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}
