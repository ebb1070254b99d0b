package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/im-n1/kosatka/internal/aws"
	"github.com/im-n1/kosatka/internal/config"
	"github.com/im-n1/kosatka/internal/config/data"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/logging"
	"github.com/im-n1/kosatka/internal/model"
	"github.com/im-n1/kosatka/internal/view"
)

const appVersion = "0.1.0"

var (
	kosatkaFlags *data.Flags
	rootCmd      = &cobra.Command{
		Use:   config.AppName,
		Short: "A terminal dashboard for container images",
		Long:  `kosatka lists, inspects and deletes container images from containerd, the Docker engine or EC2 AMIs in a terminal UI.`,
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", config.AppName, appVersion)
		},
	}
)

func init() {
	kosatkaFlags = config.NewFlags()
	initKosatkaFlags()
	rootCmd.AddCommand(versionCmd)
}

func initKosatkaFlags() {
	rootCmd.Flags().StringVarP(kosatkaFlags.Backend, "backend", "b", "", "Image backend (containerd, docker, ami)")
	rootCmd.Flags().StringVarP(kosatkaFlags.LogLevel, "logLevel", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(kosatkaFlags.LogFile, "logFile", "", "Log file path")
	rootCmd.Flags().BoolVar(kosatkaFlags.ReadOnly, "readonly", false, "Block image deletion")
	rootCmd.Flags().BoolVar(kosatkaFlags.Write, "write", false, "Allow image deletion (overrides readonly)")
	rootCmd.Flags().StringVar(kosatkaFlags.APITimeout, "apiTimeout", "", "Bound on each backend call, e.g. 30s (0s for none)")

	// containerd flags
	rootCmd.Flags().StringVar(kosatkaFlags.Address, "address", "", "containerd socket address")
	rootCmd.Flags().StringVarP(kosatkaFlags.Namespace, "namespace", "n", "", "containerd namespace")

	// AWS flags
	rootCmd.Flags().StringVar(kosatkaFlags.Profile, "profile", "", "AWS profile to use")
	rootCmd.Flags().StringVar(kosatkaFlags.Region, "region", "", "AWS region to use")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Initialize locations
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}

	// 2. Initialize log location
	logFile := config.LogFile(kosatkaFlags)
	if err := config.InitLogLoc(logFile); err != nil {
		return fmt.Errorf("failed to initialize log location: %w", err)
	}

	// 3. Create and load configuration
	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 4. Apply CLI overrides
	if err := cfg.Kosatka.Override(kosatkaFlags); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	// 5. Save configuration
	_ = cfg.Save(config.AppConfigFile, false)

	// 6. Start logging
	closer, err := logging.Init(logFile, cfg.Kosatka.Logger.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closer.Close()

	// 7. Load skin
	style, err := config.LoadStyle(config.AppStyleFile)
	if err != nil {
		slog.Warn("Style load failed, using defaults", "path", config.AppStyleFile, "err", err)
		style = config.NewStyle()
	}

	timeout, err := cfg.Kosatka.GetAPITimeout()
	if err != nil {
		return err
	}

	// 8. Create the AWS client when the AMI backend is active
	var conn aws.Connection
	if cfg.Kosatka.ActiveBackend() == config.BackendAMI {
		pm, err := aws.NewProfileManager()
		if err != nil {
			return fmt.Errorf("failed to load AWS profiles: %w", err)
		}
		profile, region, err := cfg.Refine(pm)
		if err != nil {
			return fmt.Errorf("failed to refine configuration: %w", err)
		}
		apiClient, err := aws.NewAPIClient(pm, &aws.ClientConfig{
			Profile: profile,
			Region:  region,
			Timeout: timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create AWS client: %w", err)
		}
		if account, err := apiClient.Identify(cmd.Context()); err != nil {
			slog.Warn("AWS identity check failed", "profile", profile, "err", err)
		} else {
			slog.Info("AWS identity resolved", "account", account, "profile", profile, "region", region)
		}
		conn = apiClient
	}

	// 9. Create the backend factory
	factory := dao.NewFactory(conn, cfg.Kosatka.Containerd.Address, cfg.Kosatka.Containerd.Namespace)
	defer factory.Close()

	slog.Info("Starting kosatka",
		"version", appVersion,
		"backend", cfg.Kosatka.ActiveBackend(),
		"readOnly", cfg.Kosatka.IsReadOnly(),
		"apiTimeout", timeout,
	)

	// 10. Create and initialize the TUI application
	app := view.NewApp(cfg, style, factory, model.NewBridge(timeout), appVersion)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// 11. Run the application
	return app.Run()
}
