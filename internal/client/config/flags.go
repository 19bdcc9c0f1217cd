package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
)

var clientFlags = []string{"-a", "-t", "-f"}

// parseFlags populates selected Config fields from command-line flags.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, clientFlags)

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "local session store file")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "t" {
			return
		}
		if *requestTimeout <= 0 {
			err = fmt.Errorf("request timeout must be positive, got %d", *requestTimeout)
			return
		}
		cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	})
	return err
}
