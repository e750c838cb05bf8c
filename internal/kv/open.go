package kv

import (
	"fmt"
	"log"

	"alcyxob/gym-tracker/internal/config"
)

// Open builds the backend named by cfg.Driver.
func Open(cfg config.StoreConfig) (Backend, error) {
	origin := cfg.Origin
	if origin == "" {
		origin = "default"
	}
	switch cfg.Driver {
	case "bolt", "":
		return OpenBolt(cfg.Path, origin)
	case "sqlite":
		return OpenSQLite(cfg.Path, origin)
	case "redis":
		return NewRedis(cfg.RedisAddr, origin), nil
	case "memory":
		return NewMemory(), nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// OpenOrNop opens the configured backend and degrades to Nop when it cannot,
// so the app keeps running without persistence rather than refusing to start.
func OpenOrNop(cfg config.StoreConfig) Backend {
	b, err := Open(cfg)
	if err != nil {
		log.Printf("WARN: local store unavailable, running without persistence: %v", err)
		return Nop{}
	}
	return b
}
