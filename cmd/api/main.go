package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"paintshop/internal/config"
	"paintshop/internal/db"
	"paintshop/internal/httpserver"
	"paintshop/internal/logging"
	"paintshop/internal/pricing"
	cartrepo "paintshop/internal/repository/cart"
	orderrepo "paintshop/internal/repository/order"
	productrepo "paintshop/internal/repository/product"
	tokenrepo "paintshop/internal/repository/token"
	userrepo "paintshop/internal/repository/user"
	"paintshop/internal/seed"
	adminsvc "paintshop/internal/service/admin"
	cartsvc "paintshop/internal/service/cart"
	categorysvc "paintshop/internal/service/category"
	checkoutsvc "paintshop/internal/service/checkout"
	guestsvc "paintshop/internal/service/guest"
	productsvc "paintshop/internal/service/product"
	sessionsvc "paintshop/internal/service/session"
)

const tokenPurgeInterval = time.Hour

type stores struct {
	products productrepo.Repository
	carts    cartrepo.Repository
	users    userrepo.Repository
	tokens   tokenrepo.Repository
	orders   orderrepo.Repository
	pinger   httpserver.Pinger
	close    func()
}

func main() {
	_ = godotenv.Load()

	loader, err := config.Load(os.Getenv("CONFIG_FILE"), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg := loader.Config()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("api")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open stores", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer st.close()

	if cfg.SeedOnStart {
		if err := seedIfEmpty(ctx, st.products, logger); err != nil {
			logger.Fatal("seed catalog", zap.Error(err))
		}
	}

	rules, err := cfg.Pricing.Rules()
	if err != nil {
		logger.Fatal("pricing rules", zap.Error(err))
	}
	calc := pricing.NewCalculator(rules)

	productService := productsvc.New(st.products,
		productsvc.WithLogger(logger),
		productsvc.WithFeaturedCount(cfg.FeaturedCount),
		productsvc.WithLatency(cfg.CatalogLatency),
	)
	cartService := cartsvc.New(st.carts, productService, calc, logger)
	sessionService := sessionsvc.New(st.users, st.tokens, sessionsvc.Config{
		Secret:     []byte(cfg.TokenSecret),
		TTL:        cfg.TokenTTL,
		AdminEmail: cfg.AdminEmail,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, st.pinger, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categorysvc.New(productService),
		CartSvc:     cartService,
		SessionSvc:  sessionService,
		GuestSvc:    guestsvc.New([]byte(cfg.TokenSecret), 0),
		CheckoutSvc: checkoutsvc.New(cartService, st.orders, calc, logger),
		AdminSvc:    adminsvc.New(productService, st.orders, logger),
		Pricing:     calc,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	loader.Watch(func(next config.Config) {
		r, err := next.Pricing.Rules()
		if err != nil {
			return
		}
		calc.SetRules(r)
		logger.Info("pricing rules updated",
			zap.String("free_shipping_threshold", r.FreeShippingThreshold.String()),
			zap.String("shipping_fee", r.ShippingFee.String()),
			zap.String("promo_code", r.PromoCode),
		)
	})

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeTokens(purgeCtx, sessionService, tokenPurgeInterval, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("using in-memory stores; data is lost on restart")
		return &stores{
			products: productrepo.NewMemory(logger),
			carts:    cartrepo.NewMemory(),
			users:    userrepo.NewMemory(),
			tokens:   tokenrepo.NewMemory(),
			orders:   orderrepo.NewMemory(),
			close:    func() {},
		}, nil
	}

	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		return nil, err
	}
	return &stores{
		products: productrepo.NewPostgres(pool, logger),
		carts:    cartrepo.NewPostgres(pool),
		users:    userrepo.NewPostgres(pool, logger),
		tokens:   tokenrepo.NewPostgres(pool),
		orders:   orderrepo.NewPostgres(pool, logger),
		pinger:   pool,
		close:    pool.Close,
	}, nil
}

// seedIfEmpty loads the bundled catalog when the store holds no products.
func seedIfEmpty(ctx context.Context, products productrepo.Repository, logger *zap.Logger) error {
	existing, err := products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debug("catalog present, skipping seed", zap.Int("products", len(existing)))
		return nil
	}
	_, err = seed.Apply(ctx, products, logger)
	return err
}

func purgeTokens(ctx context.Context, sessions *sessionsvc.Service, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.PurgeExpiredTokens(ctx); err != nil {
				logger.Warn("purge expired tokens", zap.Error(err))
			}
		}
	}
}
