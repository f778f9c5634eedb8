package main

import (
	"errors"
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"mcsched"
)

var (
	configPath  = flag.String("config", "", "JSON configuration file; defaults are used when empty")
	taskSetPath = flag.String("taskset", "", "JSON task set file")
	sampleName  = flag.String("sample", "", "built-in task set (PreemptiveSimpleTaskSet, MCSSimpleTaskSet)")
	duration    = flag.Int("duration", -1, "overrides simulation.duration")
	seed        = flag.Int64("seed", -1, "overrides simulation.seed")
	metricsFile = flag.String("metrics-file", "", "write the run's metrics in text format to this file")
	metricsAddr = flag.String("metrics-addr", "", "serve the run's metrics on this address after the run, e.g. :2112")
)

func loadConfig() (mcsched.Config, error) {
	cfg := mcsched.DefaultConfig()
	if *configPath != "" {
		c, err := mcsched.LoadConfig(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if *duration >= 0 {
		cfg.Simulation.Duration = mcsched.Ttick(*duration)
	}
	if *seed >= 0 {
		cfg.Simulation.Seed = uint64(*seed)
	}
	return cfg, cfg.Validate()
}

func loadTaskSet(cfg mcsched.Config, log *logrus.Logger) (mcsched.TaskSet, error) {
	switch {
	case *taskSetPath != "":
		return mcsched.LoadTaskSet(*taskSetPath)
	case *sampleName != "":
		return mcsched.Sample(*sampleName)
	}
	gen := mcsched.NewTaskSetGenerator(cfg.Tasks, cfg.Simulation.Seed)
	ts, generated, err := gen.LoadOrGenerate(cfg.Output.TaskSetDir)
	if err != nil {
		return ts, err
	}
	log.WithFields(logrus.Fields{"id": ts.ID, "generated": generated, "dir": cfg.Output.TaskSetDir}).Info("task set ready")
	return ts, nil
}

func main() {
	flag.Parse()
	log := logrus.New()

	cfg, err := loadConfig()
	if err != nil {
		log.WithError(err).Fatal("bad configuration")
	}
	ts, err := loadTaskSet(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("no task set")
	}

	trace, err := mcsched.LoadExecTrace(cfg.Output.TraceDir, ts.ID, cfg.Simulation.OverrunProbabilityPercentage)
	if err != nil {
		log.WithError(err).Fatal("bad execution time trace")
	}
	src := mcsched.NewExecTimeSource(cfg.Simulation, trace)

	logger := mcsched.NewLogger(cfg.Log, os.Stderr)
	stats := mcsched.NewStats(cfg.Scheduling)
	metrics := mcsched.NewMetrics()
	sim, err := mcsched.NewSimulator(cfg, ts, src, mcsched.MultiSink{logger, stats, metrics})
	if err != nil {
		log.WithError(err).Fatal("cannot set up the simulation")
	}

	res, err := sim.Run()
	if errors.Is(err, mcsched.ErrExecTimeExceedsWCET) {
		log.WithError(err).Fatal("execution time source broke its contract")
	} else if err != nil {
		log.WithError(err).Fatal("simulation aborted")
	}

	printReport(os.Stdout, res, stats)

	if cfg.Simulation.ExecTimeMode == mcsched.EXEC_RANDOM {
		if saved, err := trace.Save(cfg.Output.TraceDir, cfg.Simulation.Duration); err != nil {
			log.WithError(err).Error("saving execution time trace")
		} else if saved {
			log.WithField("jobs", trace.Len()).Info("execution time trace saved")
		}
	}
	if path, err := mcsched.SaveResult(cfg.Output.ResultDir, res, stats, cfg); err != nil {
		log.WithError(err).Error("saving result")
	} else {
		log.WithField("path", path).Info("result saved")
	}
	if *metricsFile != "" {
		if err := metrics.WriteToTextfile(*metricsFile); err != nil {
			log.WithError(err).Error("writing metrics")
		}
	}
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
		log.WithField("addr", *metricsAddr).Info("serving metrics")
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.WithError(err).Error("metrics server")
		}
	}

	if res.Outcome == mcsched.FAIL {
		os.Exit(1)
	}
}
