package friends

import (
	"database/sql"

	"github.com/google/wire"

	"parley/internal/profile"
)

func ProvideJsonHandler(useCase *UseCase) *JSONHandler {
	return NewJSONHandler(useCase)
}

func ProvideUseCase(repo Repository, profiles profile.Repository) *UseCase {
	return NewUseCase(repo, profiles)
}

func ProvideRepository(db *sql.DB) Repository {
	return NewPostgresRepository(db)
}

var Set = wire.NewSet(ProvideRepository, ProvideUseCase, ProvideJsonHandler)
