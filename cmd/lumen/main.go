package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/internal/version"
	"github.com/lumenhr/lumen/server"
	"github.com/lumenhr/lumen/store"
	"github.com/lumenhr/lumen/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: `A conversational HR assistant. Apply for leave, clock in, submit expenses and more through natural language.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env file from current directory (ignore error if file doesn't exist).
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:        viper.GetString("mode"),
			Addr:        viper.GetString("addr"),
			Port:        viper.GetInt("port"),
			Data:        viper.GetString("data"),
			Driver:      viper.GetString("driver"),
			DSN:         viper.GetString("dsn"),
			InstanceURL: viper.GetString("instance-url"),
			Version:     version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			panic(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			cancel()
			printDatabaseError(err, instanceProfile)
			slog.Error("failed to create db driver", "error", err)
			return
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			cancel()
			slog.Error("failed to migrate", "error", err)
			return
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			cancel()
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM.
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			cancel()
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 28091)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28091, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your lumen instance")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("lumen")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("Lumen %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
		fmt.Printf("Access Lumen at: http://localhost:%d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
		fmt.Printf("Access Lumen at: http://%s:%d\n", profile.Addr, profile.Port)
	}
}

// printDatabaseError provides user-friendly error messages for database connection issues.
func printDatabaseError(err error, profile *profile.Profile) {
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host"):
		fmt.Fprintln(os.Stderr, "\nPostgreSQL is not reachable.")
		fmt.Fprintln(os.Stderr, "Start PostgreSQL, or use SQLite for local runs:")
		fmt.Fprintln(os.Stderr, "  LUMEN_DRIVER=sqlite ./lumen --data=./data")

	case strings.Contains(errMsg, "SSL is not enabled") || strings.Contains(errMsg, "sslmode"):
		fmt.Fprintln(os.Stderr, "\nPostgreSQL SSL configuration mismatch.")
		fmt.Fprintln(os.Stderr, "Add ?sslmode=disable to your DSN.")

	case strings.Contains(errMsg, "password authentication failed"):
		fmt.Fprintln(os.Stderr, "\nPostgreSQL authentication failed.")
		fmt.Fprintln(os.Stderr, "Check the credentials in your DSN or .env file.")

	default:
		fmt.Fprintln(os.Stderr, "\nDatabase error:", errMsg)
	}

	if profile.Driver == "sqlite" && profile.Data == "" {
		fmt.Fprintln(os.Stderr, "Tip: pass --data to choose where the SQLite file lives.")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
