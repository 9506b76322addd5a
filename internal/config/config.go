package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type App struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	DatabaseURL    string        `envconfig:"DATABASE_URL" required:"true"`
	GatewayTimeout time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"5s"`
	Env            string        `envconfig:"APP_ENV" default:"dev"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
