// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ik5/audstream"
	"github.com/ik5/audstream/internal/cli"
	"github.com/ik5/audstream/internal/config"
	"github.com/ik5/audstream/playback"
	"github.com/ik5/audstream/playback/memory"
	"github.com/ik5/audstream/playback/otoplay"
	"github.com/ik5/audstream/stream"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// version is set via ldflags at build time
var version = "dev"

type runContext struct {
	cfg *config.Config
	log zerolog.Logger
	out cli.Printer
}

var CLI struct {
	Config  string           `help:"YAML config file" short:"c" type:"existingfile"`
	Version kong.VersionFlag `help:"Show version information"`

	Play    playCmd    `cmd:"" help:"Play an audio file"`
	Info    infoCmd    `cmd:"" help:"Show the format of audio files"`
	Convert convertCmd `cmd:"" help:"Decode an audio file into a PCM WAV file"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("audstream"),
		kong.Description("Decode and stream WAV, AIFF, MP3, Ogg Vorbis and FLAC files."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	out := cli.Printer{Out: os.Stdout, Err: os.Stderr}

	cfg := config.Default()
	if CLI.Config != "" {
		var err error
		if cfg, err = config.Load(CLI.Config); err != nil {
			out.Error(err)
			os.Exit(1)
		}
	}

	log, err := cfg.Logging.Logger(os.Stderr)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	if err := ctx.Run(&runContext{cfg: cfg, log: log, out: out}); err != nil {
		out.Error(err)
		os.Exit(1)
	}
}

type playCmd struct {
	File   string  `arg:"" help:"Audio file to play" type:"existingfile"`
	Volume float64 `help:"Playback volume in [0, 1], overrides the config" default:"-1"`
	Null   bool    `help:"Play into an in-memory device instead of the sound card"`
}

func (c *playCmd) Run(rc *runContext) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	var engine playback.Engine = otoplay.New()
	if c.Null {
		engine = memory.New(memory.WithRealtime())
	}

	log := rc.log.With().Str("file", c.File).Logger()
	s, err := audstream.NewStream(f, engine, rc.cfg.StreamOptions(
		stream.WithLogger(log),
		stream.WithErrorHandler(func(err error) {
			log.Error().Err(err).Msg("playback aborted")
		}),
	)...)
	if err != nil {
		return err
	}
	defer s.Close()

	volume := rc.cfg.Playback.Volume
	if c.Volume >= 0 {
		volume = c.Volume
	}
	if err := s.SetVolume(volume); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := s.Play(); err != nil {
		return err
	}
	log.Debug().Stringer("stream", s.ID()).Str("format", s.Format().String()).Msg("playing")

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.out.Status(s.Position(), s.Duration())
		case <-ctx.Done():
			fmt.Fprintln(rc.out.Out)
			return s.Stop()
		case <-s.Done():
			fmt.Fprintln(rc.out.Out)
			if err := s.Err(); err != nil {
				return err
			}
			rc.out.Success(fmt.Sprintf("played %s", cli.FormatDuration(s.Position())))
			return nil
		}
	}
}

type infoCmd struct {
	Files []string `arg:"" help:"Audio files to inspect" type:"existingfile"`
	Jobs  int      `help:"Files probed at once" default:"4"`
}

func (c *infoCmd) Run(rc *runContext) error {
	results := make([]cli.FileInfo, len(c.Files))

	var g errgroup.Group
	g.SetLimit(max(c.Jobs, 1))

	for i, path := range c.Files {
		g.Go(func() error {
			results[i] = probe(path)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, fi := range results {
		rc.out.FileInfo(fi)
		if fi.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(results))
	}

	return nil
}

func probe(path string) cli.FileInfo {
	fi := cli.FileInfo{Path: path}

	f, err := os.Open(path)
	if err != nil {
		fi.Err = err
		return fi
	}
	defer f.Close()

	src, kind, err := audstream.Open(f)
	if err != nil {
		fi.Err = err
		return fi
	}
	defer src.Close()

	fi.Kind = kind
	fi.Format = src.Format()
	fi.Duration = src.Duration()

	return fi
}

type convertCmd struct {
	Input  string `arg:"" help:"Audio file to decode" type:"existingfile"`
	Output string `arg:"" help:"WAV file to write"`
}

func (c *convertCmd) Run(rc *runContext) (err error) {
	in, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			err = errors.Join(err, os.Remove(c.Output))
		}
	}()

	f, err := audstream.ConvertToWAV(in, out)
	if err != nil {
		return err
	}

	st, err := out.Stat()
	if err != nil {
		return err
	}

	rc.log.Debug().Str("input", c.Input).Str("format", f.String()).Msg("converted")
	rc.out.Success(fmt.Sprintf("wrote %s (%s, %s)", c.Output, f, cli.FormatBytes(st.Size())))

	return nil
}
