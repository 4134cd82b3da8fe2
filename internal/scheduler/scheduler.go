package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"VolumeSentinel/internal/classifier"
	"VolumeSentinel/internal/collector"
	"VolumeSentinel/internal/feature"
	"VolumeSentinel/internal/model"
	"VolumeSentinel/internal/notifier"
	"VolumeSentinel/internal/pipeline"
	"VolumeSentinel/internal/recorder"
	"VolumeSentinel/internal/saver"
)

const (
	StatusOK         = "OK"
	StatusNoFeatures = "NO_FEATURES"

	notifyRetries = 3
)

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options controls what a job does besides running the pipeline.
type Options struct {
	Pipeline     pipeline.Options
	OutputDir    string
	TestFraction float64
}

// Report summarises one finished job.
type Report struct {
	RunID      string
	Status     string
	Result     *pipeline.Result
	Tables     saver.Tables
	Evaluation *classifier.Report
	Prediction *model.Prediction
}

// Scheduler runs the collect, profile, export, record and predict job on a cron.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Saver      saver.TableSaver
	Recorder   recorder.Recorder
	Classifier classifier.Classifier
	Notifier   Sender
	Opts       Options
	Ctx        context.Context

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewScheduler creates a new Scheduler. n may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, sv saver.TableSaver, rec recorder.Recorder, clf classifier.Classifier, n Sender, opts Options) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Saver:      sv,
		Recorder:   rec,
		Classifier: clf,
		Notifier:   n,
		Opts:       opts,
		Ctx:        ctx,
	}
}

// Register adds the job under a six-field cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.cronJob); err != nil {
		return fmt.Errorf("register job %q: %w", expr, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running cron and background jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info("scheduler stopped")
}

// RunNow executes the job immediately (one-shot mode).
func (s *Scheduler) RunNow() (*Report, error) {
	return s.runJob()
}

// RunInBackground starts the job in a goroutine that Stop waits for (RUN_ON_START).
func (s *Scheduler) RunInBackground() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.runJob(); err != nil {
			log.WithError(err).Error("background run failed")
		}
	}()
}

func (s *Scheduler) cronJob() {
	if _, err := s.runJob(); err != nil {
		log.WithError(err).Error("scheduled run failed")
	}
}

// runJob is serialized; overlapping cron ticks wait for the previous run.
func (s *Scheduler) runJob() (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := &Report{RunID: uuid.NewString()}
	logger := log.WithFields(log.Fields{"run": rep.RunID, "symbol": s.Collector.Symbol})
	started := time.Now().UTC()
	logger.Info("running job")

	store, err := s.Collector.Collect()
	if err != nil {
		s.notifyFailure(err)
		return nil, fmt.Errorf("collect: %w", err)
	}

	res, err := pipeline.Run(store, s.Opts.Pipeline)
	switch {
	case err == nil:
		rep.Status = StatusOK
	case res != nil && pipeline.FeatureTableMissing(err):
		rep.Status = StatusNoFeatures
		logger.WithError(err).Warn("no feature rows, recording profiles only")
	default:
		s.notifyFailure(err)
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	rep.Result = res
	for _, w := range res.Warnings {
		logger.WithField("date", w.Date.Format("2006-01-02")).Warn(w.String())
	}

	if rep.Tables, err = saver.Export(s.Saver, s.Opts.OutputDir, res.Symbol, store.Bars(), res.Profiles, res.Rows); err != nil {
		logger.WithError(err).Error("export tables")
	} else {
		logger.WithFields(log.Fields{
			"bars":     rep.Tables.Bars,
			"profiles": rep.Tables.Profiles,
			"features": rep.Tables.Features,
		}).Info("tables exported")
	}

	s.record(logger, rep, started)

	if rep.Status == StatusOK {
		if err := s.classify(logger, rep); err != nil {
			logger.WithError(err).Error("classify")
		}
	}

	s.notify(logger, rep)
	logger.WithFields(log.Fields{
		"status":   rep.Status,
		"profiles": len(res.Profiles),
		"rows":     len(res.Rows),
		"elapsed":  time.Since(started).Round(time.Millisecond),
	}).Info("job finished")
	return rep, nil
}

// record failures are logged and do not fail the run.
func (s *Scheduler) record(logger *log.Entry, rep *Report, started time.Time) {
	res := rep.Result
	run := &recorder.RunRecord{
		ID:        rep.RunID,
		StartedAt: started,
		Symbol:    res.Symbol,
		Bars:      res.Bars,
		Days:      len(res.Profiles),
		Rows:      len(res.Rows),
		ValueArea: s.Opts.Pipeline.ValueArea,
		Method:    string(s.Opts.Pipeline.Method),
		Status:    rep.Status,
	}
	if err := s.Recorder.RecordRun(run); err != nil {
		logger.WithError(err).Error("record run")
		return
	}
	if err := s.Recorder.RecordProfiles(rep.RunID, res.Profiles); err != nil {
		logger.WithError(err).Error("record profiles")
	}
	if len(res.Rows) > 0 {
		if err := s.Recorder.RecordFeatures(rep.RunID, res.Rows); err != nil {
			logger.WithError(err).Error("record features")
		}
	}
}

func (s *Scheduler) classify(logger *log.Entry, rep *Report) error {
	if s.Classifier == nil {
		return nil
	}
	_, test, err := feature.Split(rep.Result.Rows, s.Opts.TestFraction)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	if len(test) > 0 {
		eval, err := classifier.Evaluate(s.Classifier, test)
		if err != nil {
			return err
		}
		rep.Evaluation = &eval
		logger.WithFields(log.Fields{
			"samples":   eval.Samples,
			"accuracy":  eval.Accuracy,
			"precision": eval.Precision,
			"recall":    eval.Recall,
		}).Info("hold-out evaluation")
	}

	latest, ok := feature.Latest(rep.Result.Rows)
	if !ok {
		return errors.New("no latest feature row")
	}
	pred, err := classifier.PredictLatest(s.Classifier, latest)
	if err != nil {
		return err
	}
	rep.Prediction = pred
	if err := s.Recorder.RecordPrediction(rep.RunID, pred); err != nil {
		logger.WithError(err).Error("record prediction")
	}
	logger.WithFields(log.Fields{
		"date":        pred.Date.Format("2006-01-02"),
		"signal":      pred.Signal,
		"probability": pred.Probability,
	}).Info("prediction")
	return nil
}

func (s *Scheduler) notify(logger *log.Entry, rep *Report) {
	if s.Notifier == nil {
		return
	}
	msg := notifier.FormatRunReport(rep.RunID, rep.Result, rep.Evaluation, rep.Prediction)
	if err := s.Notifier.SendWithRetry(s.context(), msg, notifyRetries); err != nil {
		logger.WithError(err).Error("send report")
	}
}

func (s *Scheduler) notifyFailure(err error) {
	if s.Notifier == nil {
		return
	}
	if sendErr := s.Notifier.SendWithRetry(s.context(), notifier.FormatFailure(s.Collector.Symbol, err), notifyRetries); sendErr != nil {
		log.WithError(sendErr).Error("send failure notice")
	}
}

func (s *Scheduler) context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}
