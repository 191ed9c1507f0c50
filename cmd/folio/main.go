package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/folio/internal/observability"
	"github.com/hrygo/folio/internal/profile"
	"github.com/hrygo/folio/internal/site"
)

// version is set at build time.
var version = "dev"

var envKeyReplacer = strings.NewReplacer("-", "_")

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Render and check the content pages of a static portfolio site.",
	Long: `folio runs the content pipeline of a static site outside the browser:
it fetches each page's JSON source, renders the cards into the page's
container and reports pages that would show the error card.`,
	SilenceUsage: true,
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "localhost")
	viper.SetDefault("port", 8081)
	viper.SetDefault("site", ".")
	viper.SetDefault("timeout", "10s")
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("rate-limit", 20.0)
	viper.SetDefault("rate-burst", 40)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of folio, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "localhost", "address of the preview server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the preview server")
	rootCmd.PersistentFlags().String("site", ".", "root directory of the static site")
	rootCmd.PersistentFlags().String("manifest", "", "page manifest file, the stock pages when empty")
	rootCmd.PersistentFlags().String("base-url", "", "origin of the content sources, the site directory when empty")
	rootCmd.PersistentFlags().Duration("timeout", 0, "timeout of a content fetch")
	rootCmd.PersistentFlags().Int("concurrency", 4, "pages loaded at once")
	rootCmd.PersistentFlags().Float64("rate-limit", 20, "requests per second per client of the preview server")
	rootCmd.PersistentFlags().Int("rate-burst", 40, "request burst per client of the preview server")

	for _, name := range []string{"mode", "addr", "port", "site", "manifest", "base-url", "timeout", "concurrency", "rate-limit", "rate-burst"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("folio")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	rootCmd.AddCommand(newCheckCmd(), newFeedCmd(), newServeCmd(), newTermsCmd(), newPagesCmd())
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:         viper.GetString("mode"),
		Addr:         viper.GetString("addr"),
		Port:         viper.GetInt("port"),
		Site:         viper.GetString("site"),
		Manifest:     viper.GetString("manifest"),
		BaseURL:      viper.GetString("base-url"),
		FetchTimeout: viper.GetDuration("timeout"),
		Concurrency:  viper.GetInt("concurrency"),
		RateLimit:    viper.GetFloat64("rate-limit"),
		RateBurst:    viper.GetInt("rate-burst"),
		Version:      version,
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func newLogger(p *profile.Profile) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: p.LogLevel()}))
	slog.SetDefault(logger)
	return logger
}

// setup loads the profile and the site shared by every command.
func setup() (*profile.Profile, *site.Site, *slog.Logger, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(p)
	s, err := site.New(p, logger, observability.NewMetrics())
	if err != nil {
		return nil, nil, nil, err
	}
	return p, s, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
