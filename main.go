package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nixxel-company-limited/niimprint/device"
	"github.com/nixxel-company-limited/niimprint/driver"
	"github.com/nixxel-company-limited/niimprint/job"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "NIIMPRINT"

func main() {
	cmd := newRootCmd(viper.New(), job.DeviceConnector{})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper, connector job.Connector) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "niimprint",
		Short:         "Print an image on a NIIMBOT label printer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v.GetBool("verbose"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runPrint(v, connector, logger)
		},
	}

	registerFlags(cmd.Flags())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

func registerFlags(fs *pflag.FlagSet) {
	models := make([]string, len(device.Models))
	for i, m := range device.Models {
		models[i] = m.String()
	}

	fs.StringP("model", "m", device.ModelAuto.String(),
		fmt.Sprintf("printer model (%s); \"auto\" only works for USB connections", strings.Join(models, ", ")))
	fs.StringP("conn", "c", string(job.ConnUSB), "connection type (usb, bluetooth)")
	fs.StringP("addr", "a", "", "Bluetooth MAC address or USB port (auto, serial device path such as /dev/ttyACM0, VVVV:PPPP, USB serial number)")
	fs.IntP("density", "d", job.MaxDensity, "print density (1-5)")
	fs.IntP("rotate", "r", 0, "image rotation, clockwise (0, 90, 180, 270)")
	fs.StringP("image", "i", "", "image path (required)")
	fs.BoolP("verbose", "v", false, "enable verbose logging")

	fs.String("driver", driver.PreviewName, "print driver")
	fs.String("output", driver.DefaultPreviewPath, "file written by the preview driver")
	fs.Bool("check-status", false, "query printer status before printing")
	fs.String("models", "", "YAML file with extra or overriding model capabilities")
	fs.String("config", "", "config file")
}

// loadConfig reads the config file named by --config, if any.
func loadConfig(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return &job.ConfigError{Msg: fmt.Sprintf("failed to read config %s: %v", path, err)}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !verbose,
		DisableStacktrace: true,
	}
	return cfg.Build()
}

// capabilityTable returns the built-in table, overlaid with the --models
// file when one is given.
func capabilityTable(path string) (device.Table, error) {
	table := device.DefaultTable()
	if path == "" {
		return table, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &job.ConfigError{Msg: fmt.Sprintf("failed to open models file: %v", err)}
	}
	defer f.Close()

	override, err := device.LoadTable(f)
	if err != nil {
		return nil, &job.ConfigError{Msg: err.Error()}
	}
	return table.Merge(override), nil
}

// driverFactory looks up the named driver. The preview driver is bound to
// the --output path.
func driverFactory(name, output string) (driver.Factory, error) {
	if name == driver.PreviewName {
		return driver.PreviewFactory(output), nil
	}

	factory, err := driver.Lookup(name)
	if err != nil {
		return nil, &job.ConfigError{Msg: err.Error()}
	}
	return factory, nil
}

func runPrint(v *viper.Viper, connector job.Connector, logger *zap.Logger) error {
	model, err := device.ParseModel(v.GetString("model"))
	if err != nil {
		return &job.ConfigError{Msg: err.Error()}
	}

	conn, err := job.ParseConnType(v.GetString("conn"))
	if err != nil {
		return err
	}

	table, err := capabilityTable(v.GetString("models"))
	if err != nil {
		return err
	}

	factory, err := driverFactory(v.GetString("driver"), v.GetString("output"))
	if err != nil {
		return err
	}

	dispatcher := job.NewDispatcher(factory, logger)
	dispatcher.CheckStatus = v.GetBool("check-status")

	p := &job.Pipeline{
		Resolver:   job.NewResolver(connector, logger),
		Validator:  job.NewValidator(table, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	}

	return p.Run(job.Options{
		ImagePath: v.GetString("image"),
		Model:     model,
		Conn:      job.ConnectionSpec{Type: conn, Address: v.GetString("addr")},
		Density:   v.GetInt("density"),
		Rotation:  v.GetInt("rotate"),
	})
}
