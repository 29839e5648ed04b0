package profile

import (
	"database/sql"

	"github.com/google/wire"

	"parley/internal/profile/storage"
)

func ProvideJsonHandler(useCase *UseCase) *JSONHandler {
	return NewJSONHandler(useCase)
}

func ProvideUseCase(repo Repository) *UseCase {
	return NewUseCase(repo)
}

func ProvideRepository(
	db *sql.DB,
	storage *storage.PostgresStorage,
) Repository {
	return NewRepository(db, storage, storage, storage)
}

// ProvideProfileStorage is a Wire provider function that creates a storage.PostgresStorage
func ProvideProfileStorage(db *sql.DB) *storage.PostgresStorage {
	return storage.NewProfilePostgresStorage(db)
}

var Set = wire.NewSet(ProvideProfileStorage, ProvideRepository, ProvideUseCase, ProvideJsonHandler)
