package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/quickeats/courier-client/pkg/configparser"
)

// Errors
var (
	ErrCourierIDRequired = errors.New("courier id not provided")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		LogLevel string `env:"LOG_LEVEL" default:"DEBUG"`

		Courier     CourierConfig
		Dispatch    DispatchConfig
		Push        PushConfig
		Routing     RoutingConfig
		Offer       OfferConfig
		Animation   AnimationConfig
		Map         MapConfig
		Diagnostics DiagnosticsConfig
	}

	CourierConfig struct {
		ID        string `env:"COURIER_ID"`
		AuthToken string `env:"COURIER_AUTH_TOKEN"`
	}

	DispatchConfig struct {
		BaseURL        string        `env:"DISPATCH_BASE_URL" default:"http://localhost:3000"`
		RequestTimeout time.Duration `env:"DISPATCH_REQUEST_TIMEOUT" default:"10s"`
	}

	PushConfig struct {
		// Mode selects the push transport: "websocket" or "rabbitmq".
		Mode         string `env:"PUSH_MODE" default:"websocket"`
		WebsocketURL string `env:"PUSH_WEBSOCKET_URL" default:"ws://localhost:8080/ws/courier"`

		RabbitMQ RabbitMQConfig
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	RoutingConfig struct {
		BaseURL        string        `env:"ROUTING_BASE_URL" default:"https://router.project-osrm.org"`
		RequestTimeout time.Duration `env:"ROUTING_REQUEST_TIMEOUT" default:"8s"`
	}

	OfferConfig struct {
		// Seconds the courier has to respond before auto-accept kicks in.
		DeadlineSeconds int `env:"OFFER_DEADLINE_SECONDS" default:"30"`
	}

	AnimationConfig struct {
		// Snap-to-route reveal duration, not a travel-speed simulation.
		Duration time.Duration `env:"ANIMATION_DURATION" default:"800ms"`
	}

	MapConfig struct {
		FitPaddingPx  int           `env:"MAP_FIT_PADDING_PX" default:"48"`
		FitTransition time.Duration `env:"MAP_FIT_TRANSITION" default:"600ms"`
	}

	DiagnosticsConfig struct {
		Port string `env:"DIAGNOSTICS_PORT" default:"9090"`
	}
)

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if cfg.Courier.ID == "" {
		return nil, ErrCourierIDRequired
	}

	return cfg, nil
}
