// cmd/tcmctl/run.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/tcm-controller/internal/config"
	"github.com/tamzrod/tcm-controller/internal/monitor"
	"github.com/tamzrod/tcm-controller/internal/recorder"
)

type runCmd struct {
	opts *Options

	Interval int           `short:"i" long:"interval" description:"seconds between accepted samples (min 1)"`
	Window   int           `short:"w" long:"window" description:"seconds of samples kept (10..3600)"`
	Record   string        `short:"r" long:"record" description:"record samples as CSV into this directory"`
	For      time.Duration `long:"for" description:"stop after this long (e.g. 90s); runs until interrupted when unset"`
}

func (c *runCmd) override(cfg *config.Config) {
	if c.Interval > 0 {
		cfg.Monitor.QueryIntervalMs = c.Interval * 1000
	}
	if c.Window > 0 {
		cfg.Monitor.WindowSec = c.Window
	}
	if c.Record != "" {
		cfg.Monitor.RecordDir = c.Record
	}
}

func (c *runCmd) Execute(args []string) error {
	e, err := setup(c.opts, c.override)
	if err != nil {
		return err
	}
	defer e.close()

	m := e.cfg.Monitor

	// ---- recorder (optional) ----
	var rec *recorder.Recorder
	if m.RecordDir != "" {
		rec, err = recorder.New(recorder.Config{Log: e.log, Dir: m.RecordDir})
		if err != nil {
			return err
		}
		if _, err := rec.Start(); err != nil {
			return err
		}
		defer func() {
			if err := rec.Stop(); err != nil {
				e.log.Warnf("recorder: %v", err)
			}
		}()
	}

	// ---- monitor ----
	mcfg := monitor.Config{
		Log:           e.log,
		Target:        e.ctl,
		QueryInterval: m.QueryInterval(),
		Window:        m.Window(),
	}
	if rec != nil {
		mcfg.Recorder = rec
	}
	mon, err := monitor.New(mcfg)
	if err != nil {
		return errors.Trace(err)
	}

	e.ctl.SetObserver(mon.Observe)
	e.ctl.SetCallback(func(temp float64, _ int) {
		fmt.Fprintf(stdout, "%s  actual %.1f°C  target %.1f°C\n",
			time.Now().Format("15:04:05"), temp, e.ctl.TargetTemperature())
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.For > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.For)
		defer cancel()
	}

	if err := e.ctl.Start(); err != nil {
		return errors.Trace(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mon.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		e.ctl.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if st, ok := mon.Stats(); ok {
		fmt.Fprintf(stdout, "samples %d  min %.2f  max %.2f  mean %.2f\n",
			st.Count, st.MinActual, st.MaxActual, st.MeanActual)
	}
	return nil
}
