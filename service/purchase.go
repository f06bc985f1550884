package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"elearn/models"
	"elearn/repository"
	"elearn/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseService orchestrates the atomic "buy course" workflow: verify,
// conditionally debit, create the enrollment, and on any failure after the
// debit credit the same amount back. From the caller's perspective either the
// balance dropped by exactly the course price and an enrollment exists, or
// neither effect is observable.
type PurchaseService struct {
	db          *gorm.DB
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	lifecycle   *EnrollmentService
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{
		db:          db,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		lifecycle:   NewEnrollmentService(db),
	}
}

// PurchaseResult is returned to the request layer on success.
type PurchaseResult struct {
	Enrollment       *models.Enrollment `json:"enrollment"`
	RemainingBalance float64            `json:"remaining_balance"`
}

// Purchase runs the buy-course workflow for (buyerID, courseID).
//
// Read-only lookups are retried once on transient storage errors. The debit
// itself is never retried: if it fails transiently nothing was applied, and a
// retry could deduct twice.
func (s *PurchaseService) Purchase(ctx context.Context, buyerID, courseID uint) (*PurchaseResult, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.loadBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	// Checked before attempting payment so a duplicate purchase never touches
	// the balance. The unique index still catches races past this point.
	if _, err := s.enrollments.GetByStudentAndCourse(ctx, buyerID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	remaining, err := s.users.DebitBalance(ctx, buyerID, course.Price)
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	reference := uuid.NewString()

	payment := models.PaymentPaid
	if course.Price == 0 {
		payment = models.PaymentFree
	}

	enrollment, err := s.lifecycle.Create(ctx, CreateEnrollmentInput{
		StudentID:     buyerID,
		CourseID:      courseID,
		Status:        models.EnrollmentActive,
		PaymentStatus: payment,
		PaymentAmount: course.Price,
	})
	if err != nil {
		s.compensate(ctx, buyerID, course, reference)
		if errors.Is(err, repository.ErrConstraintViolation) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.recordLedger(ctx, models.WalletTransaction{
		UserID:          buyerID,
		Reference:       reference,
		TransactionType: models.TransactionTypePurchase,
		Amount:          course.Price,
		BalanceBefore:   remaining + course.Price,
		BalanceAfter:    remaining,
		Status:          models.TransactionStatusCompleted,
		Description:     "Course purchase: " + course.Title,
		CourseID:        course.ID,
		CourseName:      course.Title,
		TransactionDate: time.Now(),
	})

	go utils.NotifyPurchase(buyerID, course.ID, course.Title, course.Price, reference)
	go utils.SendEnrollmentEmail(buyer.Name, buyer.Email, course.Title)

	return &PurchaseResult{Enrollment: enrollment, RemainingBalance: remaining}, nil
}

// compensate reverts an applied debit after a failed enrollment creation. It
// runs detached from the caller's cancellation: a cancelled request must still
// leave the balance as if the purchase had never happened.
func (s *PurchaseService) compensate(ctx context.Context, buyerID uint, course *models.Course, reference string) {
	ctx = context.WithoutCancel(ctx)

	after, err := s.users.CreditBalance(ctx, buyerID, course.Price)
	if err != nil {
		// The buyer may have been deleted mid-purchase; anything else needs
		// operator attention since the debit stands without an enrollment.
		log.Printf("[PURCHASE] compensation failed for user %d, course %d, amount %.2f: %v",
			buyerID, course.ID, course.Price, err)
		return
	}

	s.recordLedger(ctx, models.WalletTransaction{
		UserID:          buyerID,
		Reference:       reference,
		TransactionType: models.TransactionTypeRefund,
		Amount:          course.Price,
		BalanceBefore:   after - course.Price,
		BalanceAfter:    after,
		Status:          models.TransactionStatusReverted,
		Description:     "Reverted purchase: " + course.Title,
		CourseID:        course.ID,
		CourseName:      course.Title,
		TransactionDate: time.Now(),
	})
}

// recordLedger writes a wallet history row. The ledger explains balance
// movements but the balance column stays the source of truth, so a failed
// ledger write is logged rather than failing the purchase.
func (s *PurchaseService) recordLedger(ctx context.Context, txn models.WalletTransaction) {
	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		log.Printf("[PURCHASE] failed to record %s ledger row for user %d: %v",
			txn.TransactionType, txn.UserID, err)
	}
}

func (s *PurchaseService) loadCourse(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil && isTransient(err) {
		course, err = s.courses.GetByID(ctx, id)
	}
	return course, err
}

func (s *PurchaseService) loadBuyer(ctx context.Context, id uint) (*models.User, error) {
	buyer, err := s.users.GetByID(ctx, id)
	if err != nil && isTransient(err) {
		buyer, err = s.users.GetByID(ctx, id)
	}
	return buyer, err
}

// isTransient reports whether a storage error looks like a timeout or
// connectivity blip worth one retry on read-only lookups.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrConstraintViolation) ||
		errors.Is(err, repository.ErrPreconditionFailed) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}
