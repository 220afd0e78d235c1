package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/svcops/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "example-service",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	// Missing service name triggers validation error
	cfg := observe.Config{
		ServiceName: "", // Empty - will fail validation
	}

	ctx := context.Background()
	_, err := observe.NewObserver(ctx, cfg)
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleConfig_Validate() {
	// Valid configuration
	cfg := observe.Config{
		ServiceName: "my-service",
		Version:     "1.0.0",
		Tracing: observe.TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 0.5, // 50% sampling
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: "prometheus",
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Configuration is valid")
	}
	// Output:
	// Configuration is valid
}

func ExampleServiceMeta_SpanName() {
	meta := observe.ServiceMeta{
		ID:   "cache-01",
		Name: "cache",
	}
	fmt.Println(meta.SpanName(observe.PhaseInitialize))
	fmt.Println(meta.SpanName(observe.PhaseShutdown))

	// Without ID, the name is used
	meta2 := observe.ServiceMeta{
		Name: "storage",
	}
	fmt.Println(meta2.SpanName(observe.PhaseCheck))
	// Output:
	// svc.init.cache-01
	// svc.shutdown.cache-01
	// svc.check.storage
}

func ExampleServiceMeta_Validate() {
	// Valid metadata
	meta := observe.ServiceMeta{
		ID:      "cache-01",
		Name:    "cache",
		Version: "1.0.0",
	}
	if err := meta.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Valid service metadata")
	}

	// Invalid - neither ID nor name
	meta2 := observe.ServiceMeta{
		Version: "1.0.0",
	}
	if errors.Is(meta2.Validate(), observe.ErrMissingServiceID) {
		fmt.Println("Caught: missing service id")
	}
	// Output:
	// Valid service metadata
	// Caught: missing service id
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	ctx := context.Background()
	logger.Info(ctx, "application started", observe.Field{Key: "version", Value: "1.0.0"})

	// Output contains JSON with timestamp, level, message, and version field
	fmt.Println("Logged message contains 'application started':", bytes.Contains(buf.Bytes(), []byte("application started")))
	// Output:
	// Logged message contains 'application started': true
}

func ExampleLogger_withComponent() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	// Create component-scoped logger
	compLogger := logger.WithComponent("registry")

	ctx := context.Background()
	compLogger.Info(ctx, "service registered")

	// Output contains the component context
	output := buf.String()
	fmt.Println("Contains component:", bytes.Contains([]byte(output), []byte("component")))
	fmt.Println("Contains registry:", bytes.Contains([]byte(output), []byte("registry")))
	// Output:
	// Contains component: true
	// Contains registry: true
}

func ExampleInstrument_Wrap() {
	ctx := context.Background()

	// Create observer with disabled exporters for example
	cfg := observe.Config{
		ServiceName: "example",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: false},
	}
	obs, _ := observe.NewObserver(ctx, cfg)
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	// Create instrument
	in, _ := observe.InstrumentFromObserver(obs)

	// Define a lifecycle phase
	initFn := func(ctx context.Context) error {
		return nil
	}

	// Wrap with observability
	wrapped := in.Wrap(observe.ServiceMeta{
		ID:   "demo",
		Name: "demo-service",
	}, observe.PhaseInitialize, initFn)

	// Execute - automatically traced, metered, and logged
	if err := wrapped(ctx); err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Println("Phase completed")
	}
	// Output:
	// Phase completed
}

func ExampleParseLogLevel() {
	levels := []string{"debug", "info", "warn", "error", "unknown"}
	for _, s := range levels {
		level := observe.ParseLogLevel(s)
		fmt.Printf("%s -> %s\n", s, level)
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}
