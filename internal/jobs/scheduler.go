// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: еженедельный расчёт тиража
// после субботнего розыгрыша.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"lotto-backend/internal/common"
	"lotto-backend/internal/config"
	"lotto-backend/internal/features/settlement"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	settleService *settlement.Service
	settleSpec    string
}

// NewScheduler создаёт планировщик задач в часовом поясе розыгрыша.
func NewScheduler(settleService *settlement.Service, cfg *config.Config) *Scheduler {
	loc, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить %s, используем UTC+9", cfg.SchedulerTimezone)
		loc = time.FixedZone("KST", 9*60*60)
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		settleService: settleService,
		settleSpec:    cfg.SettleCronSpec,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Расчёт тиража через час после субботнего розыгрыша.
	s.cron.AddFunc(s.settleSpec, func() {
		round := settlement.CurrentRound(time.Now())
		log.Infof("[CRON] Расчёт тиража %d", round)

		settled, err := s.settleService.SettleRound(ctx, round)
		if errors.Is(err, common.ErrDrawNotFound) {
			// Синхронизатор ещё не загрузил официальные числа:
			// расчёт догонит их при следующем запуске.
			log.Warnf("[CRON] Результаты тиража %d ещё не загружены", round)
			return
		}
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка расчёта тиража")
			return
		}
		log.Infof("[CRON] Тираж %d: рассчитано %d предсказаний", round, len(settled))
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
