package bootstrap

import (
	"pos-catalog/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	MetricsModule,
	components.RepositoryModule,
	components.UseCaseModule,
)
