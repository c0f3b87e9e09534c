package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/robfig/cron"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/config"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/correlator"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/port"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/queue"
	"github.com/pravinkori/gps-data-parser/cli/ingestor/storage"
	"github.com/pravinkori/gps-data-parser/libs/nmea"
)

// ingestStats counters are written by the pipeline goroutines and read by
// the periodic report job.
type ingestStats struct {
	fixes      uint64
	sinkErrors uint64
	rejects    [4]uint64 // indexed by nmea.RejectReason
}

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "")
	flag.Parse()
	cfg, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		return
	}

	configureLogging(cfg)

	loc, err := cfg.GetLocation()
	if err != nil {
		log.Fatalf("Unknown timezone %q: %v", cfg.Timezone, err)
		return
	}

	repo := storage.NewRepository()
	if err := repo.LoadStorages(cfg.Store); err != nil {
		log.Fatalf("Failed to initialize storages: %v", err)
		return
	}
	defer repo.Close()

	portCfg := port.Config{
		BaudRate:      cfg.Serial.BaudRate,
		ProbeTimeout:  cfg.GetProbeTimeout(),
		ReadTimeout:   cfg.GetReadTimeout(),
		DevicePattern: cfg.Serial.DevicePattern,
		MaxReconnects: cfg.Serial.MaxReconnects,
	}

	p, name, err := port.Locate(portCfg)
	if err != nil {
		log.Fatalf("Failed to locate GPS device: %v", err)
		return
	}

	reader := port.NewReader(p, name, portCfg)
	corr := correlator.New(cfg.GetCorrelationTolerance(), cfg.GetEmitPartial(), loc)
	q := queue.New(cfg.QueueCapacity)

	stats := &ingestStats{}

	reportJob := cron.New()
	reportJob.AddFunc("@every 1m", func() { reportStats(stats, q) })
	reportJob.Start()
	defer reportJob.Stop()

	lines := make(chan string, 64)
	var readerErr error
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		readerErr = reader.Run(lines)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer q.Close()
		for line := range lines {
			s := nmea.Parse(line)
			if u, ok := s.(nmea.Unrecognized); ok {
				atomic.AddUint64(&stats.rejects[u.Reason], 1)
				log.Debugf("Dropped line (%s): %s", u.Reason, u.Raw)
				continue
			}
			if f, ok := corr.Observe(s); ok {
				q.Push(f)
				atomic.AddUint64(&stats.fixes, 1)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			f, ok := q.Pop()
			if !ok {
				return
			}
			// Per-sink rejections are logged by the repository itself.
			if err := repo.Save(f); err != nil {
				atomic.AddUint64(&stats.sinkErrors, 1)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("Shutting down")
		if err := reader.Close(); err != nil {
			log.WithField("err", err).Debug("Error closing device handle")
		}
	}()

	wg.Wait()
	reportStats(stats, q)

	if readerErr != nil {
		log.Fatalf("Device unrecoverable: %v", readerErr)
	}
}

func getConfig(configFilePath string) (config.Settings, error) {
	var c config.Settings
	var err error

	if configFilePath == "" {
		return c, errors.New("config path is not set")
	}

	c, err = config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("config parse error: %v", err)
	}

	return c, nil
}

func configureLogging(cfg config.Settings) {
	log.SetLevel(cfg.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if cfg.LogFilePath != "" {
		logDir := filepath.Dir(cfg.LogFilePath)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				log.Fatalf("Failed to create log directory: %v", err)
			}
		}

		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    100,
			MaxBackups: 366,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}

		fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
		hook := lfshook.NewHook(lfshook.WriterMap{
			log.PanicLevel: lumberjackLogger,
			log.FatalLevel: lumberjackLogger,
			log.ErrorLevel: lumberjackLogger,
			log.WarnLevel:  lumberjackLogger,
			log.InfoLevel:  lumberjackLogger,
			log.DebugLevel: lumberjackLogger,
			log.TraceLevel: lumberjackLogger,
		}, fileFmt)

		log.AddHook(hook)
	}
}

func reportStats(stats *ingestStats, q *queue.Queue) {
	log.WithFields(log.Fields{
		"fixes":             atomic.LoadUint64(&stats.fixes),
		"sink_errors":       atomic.LoadUint64(&stats.sinkErrors),
		"queue_len":         q.Len(),
		"queue_dropped":     q.Dropped(),
		"framing":           atomic.LoadUint64(&stats.rejects[nmea.ReasonFraming]),
		"checksum_mismatch": atomic.LoadUint64(&stats.rejects[nmea.ReasonChecksumMismatch]),
		"unsupported_type":  atomic.LoadUint64(&stats.rejects[nmea.ReasonUnsupportedType]),
		"field_decode":      atomic.LoadUint64(&stats.rejects[nmea.ReasonFieldDecodeError]),
	}).Info("Ingest statistics")
}
