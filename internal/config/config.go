package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kubev2v/xo-harness/pkg/rpc"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Credentials Harness

type Configuration struct {
	Server      Server      `debugmap:"visible"`
	Credentials Credentials `debugmap:"visible"`
	Harness     Harness     `debugmap:"visible"`
	LogFormat   string      `debugmap:"visible" default:"console"`
	LogLevel    string      `debugmap:"visible" default:"info"`
}

type Server struct {
	URL string `debugmap:"visible" default:"localhost:9000"`
}

type Credentials struct {
	Email    string `debugmap:"visible" default:"admin@admin.net"`
	Password string `debugmap:"sensitive" default:"admin"`
}

type Harness struct {
	NumWorkers  int           `debugmap:"visible" default:"4"`
	DialTimeout time.Duration `debugmap:"visible" default:"30s"`
	CallTimeout time.Duration `debugmap:"visible" default:"0s"`
}

func (c *Configuration) Validate() error {
	if _, err := rpc.ParseURL(c.Server.URL); err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if c.Harness.NumWorkers < 1 {
		return fmt.Errorf("invalid number of workers %d: must be at least 1", c.Harness.NumWorkers)
	}
	if c.Harness.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.Harness.CallTimeout < 0 {
		return errors.New("call timeout must not be negative")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.LogFormat)
	}
	return nil
}
