package processor

import (
	"context"
	"time"

	"pintperfect/pkg/logger"
	"pintperfect/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const cleanupJobName = "upload_cleanup"

// UploadCleaner удаляет файлы загрузок без записи в БД
type UploadCleaner interface {
	CleanupOrphans(ctx context.Context, grace time.Duration) (int, error)
}

// CronScheduler периодически запускает очистку каталога загрузок
type CronScheduler struct {
	cron    *cron.Cron
	cleaner UploadCleaner
	grace   time.Duration
}

func NewCronScheduler(cleaner UploadCleaner, grace time.Duration) *CronScheduler {
	// Следующий запуск пропускается, пока предыдущий не закончился
	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)

	return &CronScheduler{
		cron:    c,
		cleaner: cleaner,
		grace:   grace,
	}
}

// Start регистрирует задачу по расписанию и сразу выполняет первую очистку
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runCleanup(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	s.runCleanup(ctx)
	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) runCleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	jobLog := logger.With().
		Str("job", cleanupJobName).
		Dur("grace", s.grace).
		Logger()

	removed, err := s.cleaner.CleanupOrphans(ctx, s.grace)
	if err != nil {
		metrics.UploadCleanupRuns.WithLabelValues("failed").Inc()
		jobLog.Error().Err(err).Int("removed", removed).Msg("Upload cleanup failed")
		return
	}

	metrics.UploadCleanupRuns.WithLabelValues("success").Inc()
	jobLog.Info().
		Int("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Upload cleanup completed")
}

// cronLogger пишет события robfig/cron в общий zerolog логгер
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
