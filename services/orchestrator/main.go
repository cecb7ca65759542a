// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianResearch/pkg/logging"
	"github.com/AleutianAI/AleutianResearch/services/backend"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/handlers"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/middleware"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/routes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/services"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/ttl"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "aleutian-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("research-orchestrator")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	port := os.Getenv("ORCHESTRATOR_PORT")
	if port == "" {
		port = "12310"
	}

	appLog := logging.New(logging.Config{
		Service: "research-orchestrator",
		JSON:    true,
		LogDir:  os.Getenv("ORCHESTRATOR_LOG_DIR"),
	})
	defer appLog.Close()
	logger := appLog.Slog()
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	gatewayURL := strings.Trim(os.Getenv("RESEARCH_GATEWAY_URL"), "\"' ")
	if gatewayURL == "" {
		gatewayURL = "http://research-gateway:12300"
		slog.Warn("RESEARCH_GATEWAY_URL not set, using default", "url", gatewayURL)
	}
	research := backend.NewHTTPClient(gatewayURL, logger)

	metrics := observability.InitMetrics()
	store := session.NewStore()
	conversations := session.NewConversationRegistry()

	sessionTTL := time.Duration(0)
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		sessionTTL, err = time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid SESSION_TTL %q: %v", raw, err)
		}
	}
	reaper := ttl.NewReaper(store, conversations, metrics, logger, ttl.ReaperConfig{TTL: sessionTTL})
	reaper.Start()
	defer reaper.Stop()

	deps := routes.Deps{
		Store:     store,
		Setup:     services.NewSetupService(store, research, metrics, logger),
		Query:     services.NewQueryService(store, conversations, research, metrics, logger),
		Synthesis: services.NewSynthesisService(store, research, metrics, logger),
	}

	handlers.RegisterValidators()

	router := gin.Default()
	router.Use(otelgin.Middleware("research-orchestrator"))
	router.Use(middleware.AuthMiddleware(os.Getenv("ORCHESTRATOR_AUTH_TOKEN")))

	routes.SetupRoutes(router, deps)

	log.Println("Starting the research orchestrator on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
