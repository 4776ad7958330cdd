// migrate applies the embedded schema to DATABASE_URL: go run ./cmd/migrate -direction up.
// -version prints the applied version instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"transfer-gate/internal/config"
	"transfer-gate/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	showVersion := flag.Bool("version", false, "Print the applied schema version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; migrations apply to postgres:// and sqlite:// URLs")
		os.Exit(1)
	}

	if *showVersion {
		v, dirty, ok, err := migrate.Version(cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
		switch {
		case !ok:
			fmt.Println("no migrations applied")
		case dirty:
			fmt.Printf("version %d (dirty)\n", v)
		default:
			fmt.Printf("version %d\n", v)
		}
		return
	}

	dir, err := migrate.ParseDirection(*direction)
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(2)
	}
	if err := migrate.Run(cfg.DatabaseURL, dir); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
