package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dooshek/mstts/internal/clipboard"
	"github.com/dooshek/mstts/internal/config"
	"github.com/dooshek/mstts/internal/dbus"
	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/metrics"
	"github.com/dooshek/mstts/internal/notification"
	"github.com/dooshek/mstts/internal/server"
	"github.com/dooshek/mstts/internal/state"
	"github.com/dooshek/mstts/internal/stats"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/dooshek/mstts/pkg/wav"
	"github.com/google/uuid"
)

const synthesisTimeout = 60 * time.Second

func init() {
	// Set custom usage message to show -- prefix
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(out, "  --%s", f.Name)
			name, usage := flag.UnquoteUsage(f)
			if len(name) > 0 {
				fmt.Fprintf(out, " %s", name)
			}
			fmt.Fprintf(out, "\n    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Fprintf(out, " (default %q)", f.DefValue)
			}
			fmt.Fprintf(out, "\n")
		})
	}
}

// synthesisOptions holds the one-shot flags
type synthesisOptions struct {
	text     string
	language string
	platform string
	out      string
	format   string
	play     bool
}

func main() {
	// Parse command line flags
	runWizard := flag.Bool("wizard", false, "Run the configuration wizard")
	logLevel := flag.String("log-level", "info", "Set log level (debug|info|warn|error)")
	logFilename := flag.String("log-filename", "", "Log to file instead of stdout")

	var opts synthesisOptions
	flag.StringVar(&opts.text, "text", "", "Text to synthesize")
	flag.StringVar(&opts.language, "language", "", "Language tag, e.g. de-de (default: platform default)")
	flag.StringVar(&opts.platform, "platform", "", "TTS platform (microsoft|openai|openai_realtime)")
	flag.StringVar(&opts.out, "out", "", "Output file, - for stdout (default: audio directory)")
	flag.StringVar(&opts.format, "format", "", "Output format (mp3|wav|ogg), converted with ffmpeg when needed")
	flag.BoolVar(&opts.play, "play", false, "Play the synthesized audio")
	fromClipboard := flag.Bool("clipboard", false, "Synthesize the clipboard contents instead of --text")

	serve := flag.Bool("serve", false, "Run the HTTP API")
	listen := flag.String("listen", "", "HTTP API listen address (default from config)")
	runDBus := flag.Bool("dbus", false, "Run the D-Bus service")
	showStats := flag.Bool("stats", false, "Print synthesis statistics as JSON")
	resetStats := flag.Bool("stats-reset", false, "Clear synthesis statistics")
	noNotify := flag.Bool("no-notify", false, "Disable desktop notifications (implied by --log-filename)")

	flag.Parse()

	// Set up logging level and output
	logger.SetLevel(*logLevel)
	if *logFilename != "" {
		if err := logger.SetOutputFile(*logFilename); err != nil {
			fmt.Printf("Error setting log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.CloseLogFile()
	}

	if *runWizard {
		if err := config.RunWizard(); err != nil {
			logger.Error("Error running wizard", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Error loading config", err)
		os.Exit(1)
	}
	if cfg == nil {
		logger.Info("No configuration found. Running setup wizard...")
		if err := config.RunWizard(); err != nil {
			logger.Error("Error running wizard", err)
			os.Exit(1)
		}
		if cfg, err = config.LoadConfig(); err != nil || cfg == nil {
			logger.Error("Error loading config after wizard", err)
			os.Exit(1)
		}
	}

	statsManager, err := stats.NewStatsManager()
	if err != nil {
		logger.Error("Failed to initialize statistics", err)
		os.Exit(1)
	}

	if *resetStats {
		if err := statsManager.Reset(); err != nil {
			logger.Error("Failed to reset statistics", err)
			os.Exit(1)
		}
		logger.Info("Statistics cleared")
		os.Exit(0)
	}

	if *showStats {
		out, err := statsManager.GetStatsJSON()
		if err != nil {
			logger.Error("Failed to read statistics", err)
			os.Exit(1)
		}
		fmt.Println(out)
		os.Exit(0)
	}

	promMetrics := metrics.New()
	notifier := notification.NewFor(*noNotify || *logFilename != "")
	manager, err := tts.NewManagerFromConfig(cfg, statsManager, promMetrics, notification.NewFailureObserver(notifier))
	if err != nil {
		logger.Error("Failed to initialize TTS manager", err)
		os.Exit(1)
	}

	state.Init(cfg, manager)

	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		logger.Error("Failed to initialize file operations", err)
		os.Exit(1)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		logger.Error("Failed to create necessary directories", err)
		os.Exit(1)
	}

	if *fromClipboard {
		if opts.text, err = clipboard.Read(); err != nil {
			logger.Error("Failed to read clipboard", err)
			os.Exit(1)
		}
		if opts.text == "" {
			logger.Warn("Clipboard is empty, nothing to synthesize")
			os.Exit(1)
		}
	}

	switch {
	case opts.text != "":
		if err := synthesizeOnce(manager, fileOps, opts); err != nil {
			logger.Error("Synthesis failed", err)
			os.Exit(1)
		}
	case *serve || *runDBus:
		addr := *listen
		if addr == "" {
			addr = state.Get().GetListenAddr()
		}
		if err := notifier.Notify("🔊 mstts started", fmt.Sprintf("Default platform: %s", state.Get().GetPlatform())); err != nil {
			logger.Warn("Could not send notification")
		}
		if err := runDaemon(fileOps, promMetrics, statsManager, addr, *serve, *runDBus); err != nil {
			logger.Error("Daemon failed", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// synthesizeOnce converts opts.text and writes, saves or plays the result
func synthesizeOnce(manager *tts.Manager, fileOps fileops.FileOps, opts synthesisOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), synthesisTimeout)
	defer cancel()

	audio, err := manager.GetAudio(ctx, opts.platform, opts.text, opts.language)
	if err != nil {
		return err
	}

	if opts.format != "" && opts.format != string(audio.Format) {
		data, err := wav.Convert(audio.Data, string(audio.Format), opts.format)
		if err != nil {
			return err
		}
		audio = tts.Audio{Format: tts.AudioFormat(opts.format), Data: data}
	}

	switch opts.out {
	case "-":
		if _, err := os.Stdout.Write(audio.Data); err != nil {
			return fmt.Errorf("failed to write audio to stdout: %w", err)
		}
	case "":
		if opts.play {
			break
		}
		path, err := fileOps.SaveAudio(uuid.New().String()+"."+string(audio.Format), audio.Data)
		if err != nil {
			return err
		}
		fmt.Println(path)
	default:
		if err := os.WriteFile(opts.out, audio.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.out, err)
		}
		logger.Infof("Saved %d bytes to %s", len(audio.Data), opts.out)
	}

	if opts.play {
		return tts.Play(audio)
	}
	return nil
}

// runDaemon serves the HTTP API and/or the D-Bus service until SIGINT or SIGTERM
func runDaemon(fileOps fileops.FileOps, promMetrics *metrics.Metrics, statsManager *stats.StatsManager, addr string, serve, runDBus bool) error {
	// Check if another instance is running
	if err := fileOps.CheckPID(); err != nil {
		if errors.Is(err, fileops.ErrProcessAlreadyRunning) {
			return err
		}
		logger.Warnf("Could not check PID file: %v", err)
	}

	// Save current PID
	if err := fileOps.SavePID(); err != nil {
		return fmt.Errorf("failed to save PID file: %w", err)
	}
	defer fileOps.HandleExit()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := state.Get().Manager
	errCh := make(chan error, 1)

	if serve {
		serverOpts := []server.Option{
			server.WithMetrics(promMetrics.Handler()),
			server.WithStats(statsManager),
		}
		if state.Get().Config.Server.SaveAudio {
			serverOpts = append(serverOpts, server.WithAudioStore(fileOps))
		}
		srv := server.New(manager, serverOpts...)
		go func() {
			errCh <- srv.ListenAndServe(ctx, addr)
		}()
	}

	if runDBus {
		dbusServer := dbus.NewServer(manager, fileOps, statsManager)
		if err := dbusServer.Start(); err != nil {
			stop()
			return fmt.Errorf("failed to start D-Bus service: %w", err)
		}
		go func() {
			<-ctx.Done()
			dbusServer.Stop()
		}()
		logger.Info("💡 Call com.dooshek.mstts.Synthesizer.Synthesize to convert text")
	}

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, shutting down...")
		if serve {
			return <-errCh
		}
		return nil
	case err := <-errCh:
		return err
	}
}
