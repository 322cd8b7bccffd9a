package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/airdrums/internal/app"
	"github.com/ayusman/airdrums/internal/audio"
	"github.com/ayusman/airdrums/internal/capture"
	"github.com/ayusman/airdrums/internal/detector"
	"github.com/ayusman/airdrums/internal/logging"
	"github.com/ayusman/airdrums/internal/overlay"
	"github.com/ayusman/airdrums/internal/zone"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set with -ldflags at release time.
var version = "dev"

type options struct {
	camera     int
	samples    string
	logLevel   string
	mirror     bool
	maxHands   int
	confidence float64
	fps        int
}

func defaultOptions() options {
	det := detector.DefaultConfig()
	return options{
		camera:     0,
		samples:    "sounds",
		logLevel:   "info",
		mirror:     true,
		maxHands:   det.MaxHands,
		confidence: det.MinConfidence,
		fps:        capture.DefaultFPS,
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command and returns the process exit code.
func run(args []string) int {
	root := buildRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "airdrums:", err)
		return 1
	}
	return 0
}

func buildRootCommand() *cobra.Command {
	opts := defaultOptions()

	root := &cobra.Command{
		Use:   "airdrums",
		Short: "Play drums in the air in front of your webcam",
		Long: `airdrums - a virtual drum set

Point an index finger at one of the circles drawn over the camera feed
to play snare, bass or hi-hat. Press q in the window to quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrums(cmd, opts)
		},
	}
	root.Version = version
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.Flags()
	flags.IntVar(&opts.camera, "camera", opts.camera, "camera device id")
	flags.StringVar(&opts.samples, "samples", opts.samples, "directory holding snare.wav, bass.wav and hihat.wav")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level: trace, debug, info, warn, error")
	flags.BoolVar(&opts.mirror, "mirror", opts.mirror, "mirror the camera image")
	flags.IntVar(&opts.maxHands, "max-hands", opts.maxHands, "maximum number of hands to track")
	flags.IntVar(&opts.fps, "fps", opts.fps, "frame rate requested from the camera")
	flags.Float64Var(&opts.confidence, "confidence", opts.confidence, "minimum detection and tracking confidence (0-1)")

	return root
}

func (o options) validate() error {
	if o.camera < 0 {
		return fmt.Errorf("camera id must be >= 0, got %d", o.camera)
	}
	if o.maxHands < 1 {
		return fmt.Errorf("max-hands must be >= 1, got %d", o.maxHands)
	}
	if o.fps < 1 {
		return fmt.Errorf("fps must be >= 1, got %d", o.fps)
	}
	if o.confidence < 0 || o.confidence > 1 {
		return fmt.Errorf("confidence must be within [0, 1], got %g", o.confidence)
	}
	return nil
}

func runDrums(cmd *cobra.Command, opts options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	session, err := logging.Init(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return err
	}
	log.Info().Str("version", version).Str("session", session).Msg("Virtual drum set starting")

	zones, err := zone.DefaultLayout(zone.DefaultWidth, zone.DefaultHeight)
	if err != nil {
		return err
	}

	// Past flag handling every failure is logged and the process exits 0.
	engine, err := audio.NewEngine(audio.DefaultConfig(opts.samples))
	if err != nil {
		log.Error().Err(err).Str("dir", opts.samples).Msg("Drum samples not available")
		return nil
	}
	if err := engine.Require(zones.Names()...); err != nil {
		engine.Close()
		log.Error().Err(err).Str("dir", opts.samples).Msg("Drum samples not available")
		return nil
	}

	det := newDetector(detector.Config{
		MaxHands:        opts.maxHands,
		MinConfidence:   opts.confidence,
		MinTrackingConf: opts.confidence,
	})

	camera := capture.NewCameraWithSize(opts.camera, zones.Width(), zones.Height())
	camera.SetFPS(opts.fps)

	drums, err := app.New(app.Config{Zones: zones, Mirror: opts.mirror},
		camera,
		det,
		engine,
		overlay.NewWindow(overlay.WindowTitle, 1),
	)
	if err != nil {
		engine.Close()
		det.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The loop runs on the main goroutine; HighGUI windows need it.
	runLoop(ctx, drums)
	return nil
}

type loop interface {
	Run(ctx context.Context) error
}

// runLoop runs the drum loop and logs how it ended. No loop outcome is a
// command failure: a camera that will not open is reported like a lost
// feed and the process still exits 0.
func runLoop(ctx context.Context, l loop) {
	err := l.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrCameraOpen):
		log.Error().Err(err).Msg("Camera feed not available")
	default:
		log.Error().Err(err).Msg("Drum loop ended with an error")
	}
}

// newDetector returns the MediaPipe detector, or detector.NoHands when the
// MediaPipe service script cannot be found.
func newDetector(cfg detector.Config) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("MediaPipe not available, no hands will be detected")
		return detector.NoHands{}
	}
	log.Info().Int("max_hands", cfg.MaxHands).Float64("confidence", cfg.MinConfidence).Msg("Using MediaPipe hand detector")
	return mp
}
