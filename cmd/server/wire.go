//go:build wireinject
// +build wireinject

package main

import (
	"database/sql"

	"github.com/google/wire"

	"parley/internal/chat"
	"parley/internal/friends"
	"parley/internal/profile"
)

var AppSet = wire.NewSet(profile.Set, chat.Set, friends.Set, ProvideAppServices)

func InitializeAppWire(db *sql.DB) *AppServices {
	wire.Build(AppSet)

	return &AppServices{}
}
