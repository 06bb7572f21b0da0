package contract

import (
	"context"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/repository/specification"
)

type PaperRepository interface {
	// Upsert inserts the paper if it is not stored yet. It reports whether a
	// new row was created; existing papers are left untouched.
	Upsert(ctx context.Context, paper *entity.Paper) (bool, error)
	MarkIndexed(ctx context.Context, paperId string) error
	Delete(ctx context.Context, paperId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Paper, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Paper, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Favorites
	AddFavorite(ctx context.Context, paperId string) (bool, error)
	RemoveFavorite(ctx context.Context, paperId string) (bool, error)
	IsFavorite(ctx context.Context, paperId string) (bool, error)
	FindFavorites(ctx context.Context, limit, offset int) ([]*entity.Paper, error)
}
