package config

import (
	"fmt"
)

const HelpMessage = `
Courier client — real-time order lifecycle and live route tracking.

Usage:
  courier [flags]

Flags:
  -config-path string   Path to the config yaml file (default "config.yaml")
  -help                 Show this message

Required environment:
  COURIER_ID            Courier identifier used for the push channel
  COURIER_AUTH_TOKEN    Bearer token for the dispatch API
`

func PrintHelp() {
	fmt.Print(HelpMessage)
}

// PrintConfig prints the effective configuration without secrets.
func PrintConfig(cfg *Config) {
	fmt.Printf("log level:        %s\n", cfg.LogLevel)
	fmt.Printf("courier id:       %s\n", cfg.Courier.ID)
	fmt.Printf("dispatch url:     %s\n", cfg.Dispatch.BaseURL)
	fmt.Printf("push mode:        %s\n", cfg.Push.Mode)
	fmt.Printf("routing url:      %s\n", cfg.Routing.BaseURL)
	fmt.Printf("offer deadline:   %ds\n", cfg.Offer.DeadlineSeconds)
	fmt.Printf("diagnostics port: %s\n", cfg.Diagnostics.Port)
}
