/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"trendletter/internal/categories"
	"trendletter/internal/config"
	"trendletter/internal/core"
	"trendletter/internal/email"
	"trendletter/internal/generator"
	"trendletter/internal/llm"
	"trendletter/internal/logger"
	"trendletter/internal/metrics"
	"trendletter/internal/qloo"
	"trendletter/internal/server"
	"trendletter/internal/store"
	"trendletter/internal/subscription"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trendletter",
	Short: "Trendletter generates and delivers weekly cultural-trend newsletters.",
	Long: `Trendletter builds a weekly digest of AI-written articles seeded by
taste-intelligence trend data, caches one issue per (week, category set),
and delivers it to each subscriber at most once per week.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trendletter.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Load .env file if it exists (for local development)
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	logger.Init()

	if _, err := config.Load(cfgFile); err != nil {
		cobra.CheckErr(err)
	}

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// failingWriter satisfies the pipeline's writer interface when no AI client
// could be built; every category then falls back to static content.
type failingWriter struct{ err error }

func (f failingWriter) GenerateArticleText(ctx context.Context, prompt string) (string, error) {
	return "", f.err
}

func buildArticleWriter() generator.ArticleWriter {
	client, err := llm.NewClient(config.GetGeminiModel())
	if err != nil {
		logger.Warn("AI client unavailable, falling back to static content", "error", err.Error())
		return failingWriter{err: err}
	}
	return client
}

func buildCoordinator(recorder metrics.Recorder) (*subscription.Coordinator, *email.Dispatcher, *store.Store, error) {
	st, err := store.NewStore(config.GetDataDir())
	if err != nil {
		return nil, nil, nil, err
	}

	qlooCfg := config.GetQloo()
	trendClient := qloo.NewClient(qlooCfg.APIKey, qlooCfg.BaseURL,
		qloo.WithRateLimit(config.Duration(qlooCfg.RateLimit, 200*time.Millisecond)))

	pipeline := generator.NewPipeline(trendClient, buildArticleWriter())

	emailCfg := config.GetEmail()
	dispatcher := email.NewDispatcher(emailCfg.ResendAPIKey,
		email.FormatFrom(emailCfg.FromName, emailCfg.FromAddress))

	coordinator := subscription.NewCoordinator(st, pipeline, dispatcher,
		subscription.WithRecorder(recorder))
	return coordinator, dispatcher, st, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the newsletter HTTP server",
	Long:  `Start the HTTP API for subscriptions, on-demand generation and status endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		registry := prometheus.NewRegistry()
		collector := metrics.NewCollector(registry)

		coordinator, dispatcher, st, err := buildCoordinator(collector)
		cobra.CheckErr(err)
		defer st.Close()

		srv := server.New(coordinator, dispatcher, st, registry, config.GetServer())

		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)

		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("Server stopped", err)
				os.Exit(1)
			}
		}()

		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		cobra.CheckErr(srv.Shutdown(ctx))
	},
}

var generateCategories []string
var generateLocation string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate (or fetch) this week's newsletter for a category set",
	Run: func(cmd *cobra.Command, args []string) {
		coordinator, _, st, err := buildCoordinator(metrics.Nop{})
		cobra.CheckErr(err)
		defer st.Close()

		req := subscription.GenerateRequest{Categories: generateCategories}
		if generateLocation != "" {
			req.Preferences = &core.Preferences{Location: generateLocation}
		}

		result, err := coordinator.Generate(cmd.Context(), req)
		cobra.CheckErr(err)

		verb := "Loaded cached"
		if result.Created {
			verb = "Generated"
		}
		fmt.Printf("%s newsletter %s (%s)\n", verb, result.Newsletter.ID, result.Newsletter.Title)
		for _, a := range result.Newsletter.Articles {
			fmt.Printf("  - [%s] %s (%s)\n", a.Category, a.Title, a.ReadTime)
		}
	},
}

var subscribeEmail string
var subscribeName string
var subscribeCategories []string

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Subscribe an email address and deliver this week's newsletter",
	Run: func(cmd *cobra.Command, args []string) {
		coordinator, _, st, err := buildCoordinator(metrics.Nop{})
		cobra.CheckErr(err)
		defer st.Close()

		result, err := coordinator.Subscribe(cmd.Context(), subscription.SubscribeRequest{
			Email:      subscribeEmail,
			Name:       subscribeName,
			Categories: subscribeCategories,
		})
		cobra.CheckErr(err)

		switch result.Status {
		case subscription.StatusAlreadySent:
			fmt.Printf("%s already received this week's newsletter (%s)\n", result.User.Email, result.Newsletter.Title)
		default:
			mode := "delivered"
			if result.Email.Simulated {
				mode = "simulated delivery"
			}
			fmt.Printf("Newsletter %q sent to %s (%s)\n", result.Newsletter.Title, result.User.Email, mode)
		}
	},
}

var emailStatusCmd = &cobra.Command{
	Use:   "email-status",
	Short: "Show the effective email delivery mode",
	Run: func(cmd *cobra.Command, args []string) {
		emailCfg := config.GetEmail()
		dispatcher := email.NewDispatcher(emailCfg.ResendAPIKey,
			email.FormatFrom(emailCfg.FromName, emailCfg.FromAddress))

		out, err := json.MarshalIndent(dispatcher.Status(), "", "  ")
		cobra.CheckErr(err)
		fmt.Println(string(out))
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the category catalog into the store",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.NewStore(config.GetDataDir())
		cobra.CheckErr(err)
		defer st.Close()

		for _, cat := range categories.Seeds() {
			stored, err := st.UpsertCategory(cmd.Context(), cat.Name, cat.Label, cat.Icon)
			cobra.CheckErr(err)
			fmt.Printf("Seeded category %s (%s)\n", stored.Name, stored.Label)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store row counts",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.NewStore(config.GetDataDir())
		cobra.CheckErr(err)
		defer st.Close()

		stats, err := st.GetStats(cmd.Context())
		cobra.CheckErr(err)

		out, err := json.MarshalIndent(stats, "", "  ")
		cobra.CheckErr(err)
		fmt.Println(string(out))
	},
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateCategories, "categories", nil, "categories for the newsletter (e.g. artists,movies)")
	generateCmd.Flags().StringVar(&generateLocation, "location", "", "optional location signal for trend lookups")
	cobra.CheckErr(generateCmd.MarkFlagRequired("categories"))

	subscribeCmd.Flags().StringVar(&subscribeEmail, "email", "", "subscriber email address")
	subscribeCmd.Flags().StringVar(&subscribeName, "name", "", "subscriber name")
	subscribeCmd.Flags().StringSliceVar(&subscribeCategories, "categories", nil, "categories to subscribe to")
	cobra.CheckErr(subscribeCmd.MarkFlagRequired("email"))
	cobra.CheckErr(subscribeCmd.MarkFlagRequired("categories"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(emailStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
}
