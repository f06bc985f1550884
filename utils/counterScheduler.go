package utils

import (
	"context"
	"log"

	"elearn/config"
	"elearn/database"
	"elearn/models"
	"elearn/repository"

	"github.com/robfig/cron/v3"
)

// InitializeCounterReconciler starts the periodic job that recomputes every
// course's enrollment counter from the actual enrollment rows. The counter is
// maintained transactionally on every write, so this only repairs drift left
// by operator mistakes or manual data fixes.
func InitializeCounterReconciler() {
	log.Println("[COUNTER-RECONCILER] Initializing enrollment counter reconciler...")

	c := cron.New()

	schedule := config.AppConfig.ReconcileSchedule
	if _, err := c.AddFunc(schedule, ReconcileEnrollmentCounts); err != nil {
		log.Printf("[COUNTER-RECONCILER] invalid schedule %q: %v", schedule, err)
		return
	}

	c.Start()
	log.Printf("[COUNTER-RECONCILER] Counter reconciler started (schedule %q)", schedule)
}

// ReconcileEnrollmentCounts recounts the non-dropped enrollments of every
// course and rewrites the denormalized counters.
func ReconcileEnrollmentCounts() {
	db := database.Database.Db
	ctx := context.Background()

	var courseIDs []uint
	if err := db.Model(&models.Course{}).Pluck("id", &courseIDs).Error; err != nil {
		log.Printf("[COUNTER-RECONCILER] failed to list courses: %v", err)
		return
	}

	courses := repository.NewCourseRepository(db)
	repaired := 0
	for _, id := range courseIDs {
		if err := courses.RecountEnrollments(ctx, id); err != nil {
			log.Printf("[COUNTER-RECONCILER] recount failed for course %d: %v", id, err)
			continue
		}
		repaired++
	}

	log.Printf("[COUNTER-RECONCILER] Reconciled counters for %d of %d courses", repaired, len(courseIDs))
}
