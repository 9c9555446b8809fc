package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

var tracer = otel.Tracer("song-repository")

// GormSongRepositoryWithTracing wraps GormSongRepository with tracing
type GormSongRepositoryWithTracing struct {
	*GormSongRepository
}

// NewGormSongRepositoryWithTracing creates a new repository with tracing
func NewGormSongRepositoryWithTracing(db *gorm.DB) *GormSongRepositoryWithTracing {
	return &GormSongRepositoryWithTracing{
		GormSongRepository: NewGormSongRepository(db),
	}
}

// CreateWithContext records a span around Create.
func (r *GormSongRepositoryWithTracing) CreateWithContext(ctx context.Context, song *domain.Song) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("song.id", song.ID),
			attribute.String("song.name", song.SongName),
			attribute.Int("user.id", int(song.UserID)),
		),
	)
	defer span.End()

	if err := r.GormSongRepository.Create(song); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// FindAllWithContext records a span around FindAll.
func (r *GormSongRepositoryWithTracing) FindAllWithContext(ctx context.Context) ([]domain.Song, error) {
	_, span := tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	songs, err := r.GormSongRepository.FindAll()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("songs.count", len(songs)))
	return songs, nil
}

// FindFavoritedByWithContext records a span around FindFavoritedBy.
func (r *GormSongRepositoryWithTracing) FindFavoritedByWithContext(ctx context.Context, userID uint) ([]domain.Song, error) {
	_, span := tracer.Start(ctx, "repository.FindFavoritedBy",
		trace.WithAttributes(attribute.Int("user.id", int(userID))),
	)
	defer span.End()

	songs, err := r.GormSongRepository.FindFavoritedBy(userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("songs.count", len(songs)))
	return songs, nil
}
