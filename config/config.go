package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide configuration, loaded once at startup and
// immutable afterwards. JWTSecret in particular must never come from a
// source code literal.
type Config struct {
	Port          string `envconfig:"PORT" default:"3000"`
	PostgresURI   string `envconfig:"POSTGRESQL_URI" required:"true"`
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	TokenTTLMin   int    `envconfig:"TOKEN_TTL_MIN" default:"30"`
	CORSOrigins   string `envconfig:"CORS_ORIGINS" default:"*"`
	MQTTURL       string `envconfig:"MQTT_URL"`
	MQTTTopicBase string `envconfig:"MQTT_TOPIC_BASE" default:"tasks/events"`
}

// TokenTTL returns the access token lifetime as a duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMin) * time.Minute
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
