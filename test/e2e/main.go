package main

import (
	"flag"
	"log"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/internal/models"
)

var (
	cfg = config.NewConfigurationWithOptionsAndDefaults()
	// vmTemplate is the template cloned by the VM specs; they are skipped when empty.
	vmTemplate string
)

func adminCredentials() models.Credentials {
	return models.Credentials{Email: cfg.Credentials.Email, Password: cfg.Credentials.Password}
}

func main() {
	flag.StringVar(&cfg.Server.URL, "server-url", cfg.Server.URL, "xo-server address")
	flag.StringVar(&cfg.Credentials.Email, "email", cfg.Credentials.Email, "Admin email")
	flag.StringVar(&cfg.Credentials.Password, "password", cfg.Credentials.Password, "Admin password")
	flag.DurationVar(&cfg.Harness.DialTimeout, "dial-timeout", cfg.Harness.DialTimeout, "Time spent retrying the connection")
	flag.DurationVar(&cfg.Harness.CallTimeout, "call-timeout", 5*time.Minute, "Timeout of a single call")
	flag.StringVar(&vmTemplate, "vm-template", "", "Template used by the VM specs")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
