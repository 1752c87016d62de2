package components

import (
	"travelnest/internal/handler"
	"travelnest/internal/handler/api"
	"travelnest/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewPropertyHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewReviewHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	property *api.PropertyHandler,
	booking *api.BookingHandler,
	payment *api.PaymentHandler,
	review *api.ReviewHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:     auth,
		Property: property,
		Booking:  booking,
		Payment:  payment,
		Review:   review,
	}
}
