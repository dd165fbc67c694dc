package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-cart/pkg/redis"
)

// Params wires the HTTP surface. Products, Idempotency and Gatherer may be nil.
type Params struct {
	Config       *config.Config
	Logger       *logger.Logger
	Cart         cartcontrollers.Deps
	Products     cartcontrollers.ProductLister
	Idempotency  pkgredis.IdempotencyStore
	Gatherer     prometheus.Gatherer
	Dependencies []controllers.Dependency
}

func NewRouter(p Params) http.Handler {
	logg := p.Logger
	env := ""
	var origins []string
	if p.Config != nil {
		env = p.Config.App.Env
		origins = p.Config.App.CORSOrigins
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if len(origins) > 0 {
		r.Use(middleware.CORS(origins))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(env))
		r.Get("/ready", controllers.HealthReady(env, logg, p.Dependencies...))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	if p.Products != nil {
		r.Get("/api/v1/products", cartcontrollers.ProductList(p.Products, logg))
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		if p.Idempotency != nil {
			r.Use(middleware.Idempotency(p.Idempotency, logg))
		}
		r.Get("/", cartcontrollers.CartFetch(p.Cart, logg))
		r.Post("/items", cartcontrollers.CartAddItem(p.Cart, logg))
		r.Put("/items/{productId}", cartcontrollers.CartUpdateItem(p.Cart, logg))
		r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(p.Cart, logg))
		r.Post("/checkout", cartcontrollers.CartCheckout(p.Cart, logg))
	})

	return r
}
