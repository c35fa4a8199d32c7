package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/repositories/images"
	"github.com/dmitrijs2005/imgvault/internal/repositories/profiles"
	"github.com/dmitrijs2005/imgvault/internal/repositories/refreshtokens"
	"github.com/dmitrijs2005/imgvault/internal/repositories/users"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Images(db dbx.DBTX) images.Repository
}
