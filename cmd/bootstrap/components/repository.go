package components

import (
	"pos-catalog/internal/infra/db"
	"pos-catalog/internal/infra/readstore"
	"pos-catalog/internal/infra/uow"
	"pos-catalog/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductReadStore)),
		),
		fx.Annotate(
			readstore.NewContainerReadStore,
			fx.As(new(queries.ContainerReadStore)),
		),
		fx.Annotate(
			readstore.NewPointOfSaleReadStore,
			fx.As(new(queries.PointOfSaleReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
