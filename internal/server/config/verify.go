package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Verify validates the configuration and prepares the data directory.
func Verify(cfg *ServerConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return describe(err)
	}
	rl := cfg.Server.HTTP.RateLimit
	if rl.Enabled && (rl.RPS <= 0 || rl.Burst < 1) {
		return errors.New("server.http.rate_limit: rps and burst must be positive when enabled")
	}
	if !cfg.Storage.InMemory {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o750); err != nil {
			return fmt.Errorf("cannot create data directory: %w", err)
		}
	}
	return nil
}

// describe turns validator errors into one readable error.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "ServerConfig.Session.ConnectTimeout"; drop the root.
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		msg := fmt.Sprintf("%s: failed %s", ns, fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
