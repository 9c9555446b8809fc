package domain

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func TestFavoriteRowsCascadeWithSong(t *testing.T) {
	s, err := schema.Parse(&Favorite{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parsing favorite schema: %v", err)
	}

	rel, ok := s.Relationships.Relations["Song"]
	if !ok {
		t.Fatal("expected a Song association on Favorite")
	}

	constraint := rel.ParseConstraint()
	if constraint == nil {
		t.Fatal("expected a foreign key constraint on the Song association")
	}
	if constraint.OnDelete != "CASCADE" {
		t.Fatalf("expected ON DELETE CASCADE, got %q", constraint.OnDelete)
	}
}
