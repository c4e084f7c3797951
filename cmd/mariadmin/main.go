package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mariadmin/mariadmin/internal/config"
	"github.com/mariadmin/mariadmin/internal/logging"
	"github.com/mariadmin/mariadmin/internal/store"
	"github.com/mariadmin/mariadmin/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	port        int
	bind        string
	allowSubnet string
	verbosity   int
	logFile     string

	dbHost     string
	dbPort     int
	dbUser     string
	dbPassword string
	dbName     string

	queryTimeout time.Duration
	logRetention int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mariadmin",
		Short: "Mariadmin - User administration API for MariaDB",
		Long:  `Mariadmin is a small HTTP daemon for managing database users: it provisions the schema and audit triggers, then serves list/add/delete operations.`,
		RunE:  run,
	}

	// Flags
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (required, or set PORT env var)")
	rootCmd.Flags().StringVarP(&bind, "bind", "b", "", "IP address to bind to (e.g., 127.0.0.1, 0.0.0.0)")
	rootCmd.Flags().StringVarP(&allowSubnet, "allow-subnet", "a", "", "CIDR subnet allowed to connect (e.g., 192.168.1.0/24)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Rotating log file path (console only when empty)")

	rootCmd.Flags().StringVar(&dbHost, "db-host", "localhost", "Database server host (or set DB_HOST env var)")
	rootCmd.Flags().IntVar(&dbPort, "db-port", 3306, "Database server port (or set DB_PORT env var)")
	rootCmd.Flags().StringVar(&dbUser, "db-user", "root", "Database user (or set DB_USER env var)")
	rootCmd.Flags().StringVar(&dbPassword, "db-password", "", "Database password (or set DB_PASSWORD env var)")
	rootCmd.Flags().StringVar(&dbName, "db-name", "useradmin", "Target database name (or set DB_NAME env var)")

	// Advanced flags
	rootCmd.Flags().DurationVar(&queryTimeout, "query-timeout", config.DefaultTimeouts().StoreQuery, "Timeout for a single store operation")
	rootCmd.Flags().IntVar(&logRetention, "log-retention-days", 90, "Days to keep audit log rows (0 disables pruning)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mariadmin %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	applyEnvOverrides(cmd)

	// Validate and parse allow-subnet if provided
	var allowedNet *net.IPNet
	if allowSubnet != "" {
		_, parsedNet, err := net.ParseCIDR(allowSubnet)
		if err != nil {
			return fmt.Errorf("invalid allow-subnet CIDR: %s", allowSubnet)
		}
		allowedNet = parsedNet
	}

	timeouts := config.DefaultTimeouts()
	timeouts.StoreQuery = queryTimeout

	cfg := &config.Config{
		Server: config.Server{
			Port:       port,
			Bind:       bind,
			AllowedNet: allowedNet,
		},
		Database: config.Database{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			Name:     dbName,
		},
		Timeouts: timeouts,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Setup logging
	logging.Apply(verbosity, logFile)

	// Warn if binding to all interfaces without an allow list
	if (bind == "" || bind == "0.0.0.0" || bind == "::") && allowSubnet == "" {
		log.Warn().Msg("Server is accessible from all interfaces without subnet restrictions. Consider using --bind or --allow-subnet for security.")
	}

	log.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Str("bind", cfg.Server.Bind).
		Str("allow_subnet", allowSubnet).
		Str("db_host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("Starting Mariadmin")

	// Initialize store
	st, err := store.Open(cfg.Database, cfg.Timeouts.StoreQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()

	// Ensure database and log schema exist
	ctx := context.Background()
	if resp := st.InitDatabase(ctx); !resp.Success {
		log.Fatal().Str("message", resp.Message).Msg("Failed to initialize database")
	}
	if resp := st.InitLogSchema(ctx); !resp.Success {
		log.Fatal().Str("message", resp.Message).Msg("Failed to initialize log schema")
	}

	// Schedule audit log pruning
	var scheduler *cron.Cron
	if logRetention > 0 {
		retention := time.Duration(logRetention) * 24 * time.Hour
		scheduler = cron.New()
		_, err := scheduler.AddFunc("0 3 * * *", func() {
			pruneCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			pruned, err := st.PruneLogs(pruneCtx, retention)
			if err != nil {
				log.Error().Err(err).Msg("Failed to prune audit logs")
				return
			}
			log.Info().Int64("pruned", pruned).Msg("Audit log pruning complete")
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule audit log pruning")
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Debug().Int("retention_days", logRetention).Msg("Audit log pruning scheduled")
	}

	// Create web server
	server := web.NewServer(st, cfg.Server, cfg.Timeouts)

	// Setup graceful shutdown
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Start server
	if err := server.Start(runCtx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("Mariadmin stopped")
	return nil
}

// applyEnvOverrides fills flags from the environment when they were not set
// explicitly on the command line.
func applyEnvOverrides(cmd *cobra.Command) {
	if !cmd.Flags().Changed("port") {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if v, err := strconv.Atoi(envPort); err == nil {
				port = v
			}
		}
	}
	if !cmd.Flags().Changed("db-host") {
		if v := os.Getenv("DB_HOST"); v != "" {
			dbHost = v
		}
	}
	if !cmd.Flags().Changed("db-port") {
		if envPort := os.Getenv("DB_PORT"); envPort != "" {
			if v, err := strconv.Atoi(envPort); err == nil {
				dbPort = v
			}
		}
	}
	if !cmd.Flags().Changed("db-user") {
		if v := os.Getenv("DB_USER"); v != "" {
			dbUser = v
		}
	}
	if !cmd.Flags().Changed("db-password") {
		if v := os.Getenv("DB_PASSWORD"); v != "" {
			dbPassword = v
		}
	}
	if !cmd.Flags().Changed("db-name") {
		if v := os.Getenv("DB_NAME"); v != "" {
			dbName = v
		}
	}
}
