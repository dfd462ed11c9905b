package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neolink-go/neolink/internal/baichuan/hooks"
	"github.com/neolink-go/neolink/internal/logger"
	"github.com/neolink-go/neolink/internal/metrics"
)

const (
	programName        = "neolink"
	configParamStr     = "config"
	verboseParamStr    = "verbose"
	metricsParamStr    = "metrics-addr"
	webhookParamStr    = "hook-webhook-url"
	shellHookParamStr  = "hook-shell-script"
)

// metricsRegistry and hookManager are attached to every dialed connection
// by dial.go, so the session/transport/catalog instrumentation wired into
// internal/baichuan actually gets observed by this binary rather than only
// by that package's own tests.
var (
	metricsRegistry = metrics.New(prometheus.NewRegistry())
	hookManager     = hooks.NewManager(hooks.DefaultConfig(), nil)
	metricsSrv      *metrics.Server
)

var rootCmd = &cobra.Command{
	Use:           programName,
	Short:         "A command-line bridge to Reolink/Baichuan IP cameras.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()
		if viper.GetBool(verboseParamStr) {
			_ = logger.SetLevel("debug")
		}
		if url := viper.GetString(webhookParamStr); url != "" {
			_ = hookManager.RegisterHook(hooks.EventConnectionUp, hooks.NewWebhookHook("cli-webhook-up", url, 10*time.Second))
			_ = hookManager.RegisterHook(hooks.EventConnectionDown, hooks.NewWebhookHook("cli-webhook-down", url, 10*time.Second))
			_ = hookManager.RegisterHook(hooks.EventMotionStart, hooks.NewWebhookHook("cli-webhook-motion", url, 10*time.Second))
			_ = hookManager.RegisterHook(hooks.EventMotionStop, hooks.NewWebhookHook("cli-webhook-motion", url, 10*time.Second))
			_ = hookManager.RegisterHook(hooks.EventBattery, hooks.NewWebhookHook("cli-webhook-battery", url, 10*time.Second))
			_ = hookManager.RegisterHook(hooks.EventFloodlight, hooks.NewWebhookHook("cli-webhook-floodlight", url, 10*time.Second))
		}
		if script := viper.GetString(shellHookParamStr); script != "" {
			for _, evt := range []hooks.EventType{
				hooks.EventConnectionUp, hooks.EventConnectionDown,
				hooks.EventMotionStart, hooks.EventMotionStop,
				hooks.EventBattery, hooks.EventFloodlight,
			} {
				_ = hookManager.RegisterHook(evt, hooks.NewShellHook("cli-shell-"+string(evt), script, 10*time.Second))
			}
		}
		if addr := viper.GetString(metricsParamStr); addr != "" {
			metricsSrv = metrics.NewServer(addr, metricsRegistry.Gatherer())
			go func() {
				if err := metricsSrv.Serve(); err != nil {
					logger.Logger().Warn("metrics server stopped", "error", err)
				}
			}()
		}
		return nil
	},
}

func init() {
	hookManager.SetMetrics(metricsRegistry)

	viper.SetEnvPrefix("neolink")

	rootCmd.PersistentFlags().StringP(configParamStr, "c", "", "path to the camera-list config file (required)")
	viper.BindPFlag(configParamStr, rootCmd.PersistentFlags().Lookup(configParamStr))
	viper.BindEnv(configParamStr) // NEOLINK_CONFIG

	rootCmd.PersistentFlags().Bool(verboseParamStr, false, "enable debug logging")
	viper.BindPFlag(verboseParamStr, rootCmd.PersistentFlags().Lookup(verboseParamStr))
	viper.BindEnv(verboseParamStr) // NEOLINK_VERBOSE

	rootCmd.PersistentFlags().String(metricsParamStr, "", "if set, serve Prometheus metrics on this address (e.g. :9090) for the command's duration")
	viper.BindPFlag(metricsParamStr, rootCmd.PersistentFlags().Lookup(metricsParamStr))
	viper.BindEnv(metricsParamStr) // NEOLINK_METRICS_ADDR

	rootCmd.PersistentFlags().String(webhookParamStr, "", "if set, POST connection/motion/battery/floodlight events to this URL")
	viper.BindPFlag(webhookParamStr, rootCmd.PersistentFlags().Lookup(webhookParamStr))
	viper.BindEnv(webhookParamStr) // NEOLINK_HOOK_WEBHOOK_URL

	rootCmd.PersistentFlags().String(shellHookParamStr, "", "if set, run this script on connection/motion/battery/floodlight events")
	viper.BindPFlag(shellHookParamStr, rootCmd.PersistentFlags().Lookup(shellHookParamStr))
	viper.BindEnv(shellHookParamStr) // NEOLINK_HOOK_SHELL_SCRIPT

	_ = rootCmd.MarkPersistentFlagRequired(configParamStr)
}

func main() {
	err := rootCmd.Execute()
	code := exitCodeFor(err)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
	}
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = metricsSrv.Shutdown(ctx)
		cancel()
	}
	os.Exit(code)
}
