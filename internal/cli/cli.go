package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"loraterm/internal/battery"
	"loraterm/internal/config"
	"loraterm/internal/keypad"
	"loraterm/internal/link"
	"loraterm/internal/logging"
	"loraterm/internal/outbox"
	"loraterm/internal/paths"
	"loraterm/internal/radio"
	"loraterm/internal/script"
	"loraterm/internal/security"
	"loraterm/internal/station"
	"loraterm/internal/ui"
	"loraterm/internal/version"
)

func Run(app string, args []string) int {
	logger := logging.New()

	fs := flag.NewFlagSet(app, flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	configPath := fs.String("config", "", "path to config file")
	homePath := fs.String("home", "", "loraterm home directory")
	scriptPath := fs.String("script", "", "key script to replay on start")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		usage(app)
		return 2
	}

	if *homePath != "" {
		_ = os.Setenv(paths.EnvHome, *homePath)
	}

	cfg, err := config.LoadOptional(resolveConfigPath(*configPath))
	if err != nil {
		logger.Printf("config error: %v", err)
		return 1
	}

	switch remaining[0] {
	case "start":
		if err := runStart(cfg, *scriptPath); err != nil {
			logger.Printf("start: %v", err)
			return 1
		}
		return 0
	case "send":
		if len(remaining) < 2 {
			logger.Printf("send: message argument is required")
			return 2
		}
		if err := runSend(cfg, remaining[1]); err != nil {
			logger.Printf("send: %v", err)
			return 1
		}
		return 0
	case "genkey":
		key, err := security.GenerateKey()
		if err != nil {
			logger.Printf("genkey: %v", err)
			return 1
		}
		fmt.Println(key)
		return 0
	case "version":
		fmt.Println(app + " " + version.Version)
		return 0
	default:
		usage(app)
		return 2
	}
}

func usage(app string) {
	fmt.Printf(`%s - keypad message terminal for a line-framed radio link

Usage:
  %s [flags] start           run the terminal
  %s [flags] send <message>  transmit one message and exit
  %s genkey                  print fresh key material
  %s version                 print the version

Flags:
  -config path   config file (default: $LORATERM_HOME/config.yaml)
  -home path     home directory
  -script path   key script replayed after start
`, app, app, app, app, app)
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path, err := paths.ConfigPath()
	if err != nil {
		return "config.yaml"
	}
	return path
}

func buildCodec(cfg config.Config) (*security.Codec, error) {
	if !cfg.Crypto.Enabled {
		return nil, nil
	}
	key, err := security.ResolveKey(cfg.Crypto.Key, cfg.Crypto.KeyFile, cfg.Crypto.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("crypto is enabled but unusable (run genkey): %w", err)
	}
	return security.NewCodec(key)
}

func runStart(cfg config.Config, scriptPath string) error {
	var steps []script.Step
	if scriptPath != "" {
		var err error
		steps, err = script.ParseFile(scriptPath)
		if err != nil {
			return err
		}
	}

	codec, err := buildCodec(cfg)
	if err != nil {
		return err
	}

	home, err := paths.HomeDir()
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(home); err != nil {
		return err
	}
	logger := logging.NewFile(paths.ResolveInHome(home, cfg.Device.LogFile))

	conn, err := radio.Dial(radioOptions(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := station.Options{
		Codec:             codec,
		Radio:             conn,
		Logger:            logger,
		DeviceName:        cfg.Device.Name,
		BufferLimit:       cfg.Device.BufferLimit,
		LogLimit:          cfg.Device.LogLimit,
		T9Timeout:         time.Duration(cfg.Device.T9TimeoutMS) * time.Millisecond,
		EncryptionEnabled: cfg.Crypto.Enabled,
	}

	st := station.New(opts)
	if cfg.Link.Enabled {
		svc, err := link.Listen(cfg.Link.Listen, st.HandleLinkMessage)
		if err != nil {
			return err
		}
		defer svc.Close()
		st.SetLink(svc)
	}

	go st.RunEgress(ctx)
	go st.RunTicker(ctx, 100*time.Millisecond)

	if len(cfg.Device.MatrixRowPins) > 0 {
		matrix, err := keypad.NewSysfsMatrix(cfg.Device.MatrixRowPins, cfg.Device.MatrixColPins)
		if err != nil {
			return err
		}
		scanner := keypad.NewScanner(matrix, time.Duration(cfg.Device.DebounceMS)*time.Millisecond)
		events := make(chan keypad.Event, 16)
		go scanner.Run(ctx, time.Duration(cfg.Device.ScanIntervalMS)*time.Millisecond, events)
		go st.RunKeys(ctx, events)
	}
	go func() {
		_ = st.RunRadio(ctx, conn)
	}()

	src := batterySource(cfg)
	go battery.Monitor(ctx, src,
		cfg.Battery.EmptyVolts, cfg.Battery.FullVolts,
		time.Duration(cfg.Battery.IntervalMS)*time.Millisecond,
		st.SetBattery)

	if cfg.Outbox.Enabled {
		stop, err := outbox.Start(ctx, outbox.Options{
			Dir: paths.ResolveInHome(home, cfg.Outbox.Dir),
		}, st.Send, func(msg string) { logger.Print(msg) })
		if err != nil {
			return err
		}
		defer stop()
	}

	if len(steps) > 0 {
		go func() {
			// Give the program a moment to come up before replaying.
			time.Sleep(300 * time.Millisecond)
			script.Run(steps, st.HandleKey)
		}()
	}

	_, err = ui.NewProgram(st, cfg.UI.ShowMetrics).Run()
	return err
}

func radioOptions(cfg config.Config) radio.Options {
	return radio.Options{
		Transport: cfg.Radio.Transport,
		Target:    cfg.Radio.Target,
		Device:    cfg.Radio.Device,
		Baud:      cfg.Radio.Baud,
	}
}

func batterySource(cfg config.Config) battery.Source {
	if cfg.Battery.Source != "" {
		return battery.SysfsSource{Path: cfg.Battery.Source, Divider: cfg.Battery.Divider}
	}
	return battery.FixedSource{V: cfg.Battery.FullVolts}
}

func runSend(cfg config.Config, text string) error {
	if text == "" {
		return errors.New("message is empty")
	}
	codec, err := buildCodec(cfg)
	if err != nil {
		return err
	}
	conn, err := radio.Dial(radioOptions(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()

	payload := text
	if codec != nil {
		payload = codec.Encrypt(text)
	}
	return conn.WriteLine(payload)
}
