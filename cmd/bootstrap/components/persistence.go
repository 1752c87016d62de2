package components

import (
	"travelnest/internal/infra/db"
	"travelnest/internal/infra/gateway"
	"travelnest/internal/infra/readstore"
	"travelnest/internal/infra/uow"
	"travelnest/internal/pkg/config"
	"travelnest/internal/usecase/queries"
	"travelnest/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are stateless and constructed inside the unit of
// work, so only the UoW, the read stores, and the gateway are provided here.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		NewPaymentConfig,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewPropertyReadStore,
			fx.As(new(queries.PropertyReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
		fx.Annotate(
			readstore.NewReviewReadStore,
			fx.As(new(queries.ReviewReadStore)),
		),
		fx.Annotate(
			gateway.NewChapaGateway,
			fx.As(new(gateway.CheckoutGateway)),
		),
	),
)

// NewDBTX exposes the pool as the read stores' query executor. Read stores
// run outside transactions; transactional reads go through the UoW.
func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewPaymentConfig(cfg config.Config) config.PaymentConfig {
	return cfg.Payment
}
