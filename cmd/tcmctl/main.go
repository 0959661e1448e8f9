// cmd/tcmctl/main.go
package main

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/config"
	"github.com/tamzrod/tcm-controller/internal/controller"
	"github.com/tamzrod/tcm-controller/internal/logger"
)

// Options are shared by every command. Flags override the config file.
type Options struct {
	Config       string `short:"c" long:"config" env:"TCM_CONFIG" description:"YAML config file"`
	SerialNumber string `short:"s" long:"serial" description:"USB serial number of the controller"`
	Module       string `short:"m" long:"module" description:"module identifier (default TC1)"`
	Simulate     bool   `long:"simulate" description:"use the simulated controller"`
	LogLevel     string `short:"l" long:"log-level" description:"trace, debug, info, warn or error"`
	LogFile      string `long:"log-file" description:"also write a rotated log file"`
}

// stdout receives command output. Logs go to stderr.
var stdout io.Writer = os.Stdout

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"run", "Stream readings", "Poll the actual temperature every second until interrupted, optionally recording to CSV.", &runCmd{opts: &opts}},
		{"get-target", "Query the target temperature", "Query the target temperature from the controller.", &getTargetCmd{opts: &opts}},
		{"set-target", "Set the target temperature", "Set the target temperature. The value is not persisted until save-target.", &setTargetCmd{opts: &opts}},
		{"save-target", "Persist the target temperature", "Persist the current setpoint on the controller.", &saveTargetCmd{opts: &opts}},
		{"actual", "Query the actual temperature", "Query the actual temperature once.", &actualCmd{opts: &opts}},
		{"ports", "List serial ports", "List enumerated serial ports with their USB serial numbers.", &portsCmd{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			panic(err)
		}
	}

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// --------------------
// Load + validate config
// --------------------

// loadConfig reads the optional file, applies flag overrides, validates
// and normalizes. Command-specific overrides run after the global ones.
func loadConfig(opts *Options, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := &config.Config{}
	if opts.Config != "" {
		c, err := config.Load(opts.Config)
		if err != nil {
			return nil, errors.Trace(err)
		}
		cfg = c
	}

	applyOverrides(cfg, opts)
	for _, o := range overrides {
		o(cfg)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, errors.Annotate(err, "config validation failed")
	}
	config.Normalize(cfg)
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.SerialNumber != "" {
		cfg.Device.SerialNumber = opts.SerialNumber
	}
	if opts.Module != "" {
		cfg.Device.Module = opts.Module
	}
	if opts.Simulate {
		cfg.Device.Simulate = true
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}
}

// env is what every controller command needs.
type env struct {
	cfg *config.Config
	log *logrus.Logger
	ctl controller.Controller
}

func setup(opts *Options, overrides ...func(*config.Config)) (*env, error) {
	cfg, err := loadConfig(opts, overrides...)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, errors.Trace(err)
	}

	ctl, err := controller.New(cfg, log)
	if err != nil {
		log.Debug(errors.ErrorStack(err))
		return nil, errors.Annotate(err, "controller")
	}

	log.WithFields(logrus.Fields{
		"module":   "tcmctl",
		"simulate": cfg.Device.Simulate,
		"serial":   cfg.Device.SerialNumber,
	}).Debug("controller ready")

	return &env{cfg: cfg, log: log, ctl: ctl}, nil
}

func (e *env) close() {
	if err := e.ctl.Close(); err != nil {
		e.log.Warnf("close: %v", err)
	}
}
