package observability

// Config конфигурация OpenTelemetry (traces + metrics + propagator).
// Теги env читаются тем же загрузчиком, что и конфиг сервиса.
type Config struct {
	// Enabled включить экспорт в OTLP collector
	Enabled bool `env:"OTEL_ENABLED" envDefault:"false"`
	// OTLPEndpoint адрес OTLP gRPC, например "127.0.0.1:4317" или "otel-collector:4317"
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"127.0.0.1:4317"`
	// SamplingRatio доля трасс (0..1)
	SamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`
	// ServiceName заполняется сервисом, не из env
	ServiceName string `env:"-"`
	// DeploymentEnvironment заполняется из APP_ENV
	DeploymentEnvironment string `env:"-"`
	// ServiceVersion опционально, например из build
	ServiceVersion string `env:"SERVICE_VERSION"`
}
