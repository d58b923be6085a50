package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/storeline/checkout/internal/customers"
	"github.com/storeline/checkout/internal/domain"
	"github.com/storeline/checkout/internal/event"
	"github.com/storeline/checkout/internal/messaging"
	"github.com/storeline/checkout/internal/notification"
	"github.com/storeline/checkout/internal/orders"
	"github.com/storeline/checkout/internal/products"
	"github.com/storeline/checkout/internal/telemetry"
)

const (
	serviceName    = "store"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	dispatcher := event.NewDispatcher(event.WithLogger(logger))
	dispatcher.Register(domain.CustomerCreated, notification.NewCustomerCreatedLog1(logger))
	dispatcher.Register(domain.CustomerCreated, notification.NewCustomerCreatedLog2(logger))
	dispatcher.Register(domain.CustomerAddressChanged, notification.NewAddressChangedLog(logger))

	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		producer := messaging.NewProducer(strings.Split(kafkaBrokers, ","), "checkout.events")
		defer func() { _ = producer.Close() }()

		publisher := notification.NewPublisher(producer)
		dispatcher.Register(domain.CustomerCreated, publisher)
		dispatcher.Register(domain.CustomerAddressChanged, publisher)
		dispatcher.Register(domain.OrderPlaced, publisher)
	}

	var orderOpts []orders.Option
	if v := os.Getenv("ORDERS_PAGE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid ORDERS_PAGE_LIMIT", "error", err, "value", v)
			os.Exit(1)
		}
		orderOpts = append(orderOpts, orders.WithPageLimit(limit))
	}

	orderHandler := orders.NewHandler(orders.NewRepository(db, orderOpts...), dispatcher, logger)
	customerHandler := customers.NewHandler(customers.NewRepository(db), dispatcher, logger)
	productHandler := products.NewHandler(products.NewRepository(db), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /customers", telemetry.WithHTTPRoute(customerHandler.HandleCreate))
	mux.HandleFunc("GET /customers/{id}", telemetry.WithHTTPRoute(customerHandler.HandleGet))
	mux.HandleFunc("PATCH /customers/{id}/address", telemetry.WithHTTPRoute(customerHandler.HandleChangeAddress))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("PATCH /products/{id}/price", telemetry.WithHTTPRoute(productHandler.HandleChangePrice))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("POST /orders/{id}/items", telemetry.WithHTTPRoute(orderHandler.HandleAddItems))
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting store service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
