package service

import (
	"sync"
	"testing"

	"elearn/models"
	"elearn/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 100)
	course := seedCourse(t, db, instructor.ID, 60)

	result, err := svc.Purchase(testCtx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.RemainingBalance)
	assert.Equal(t, models.EnrollmentActive, result.Enrollment.Status)
	assert.Equal(t, models.PaymentPaid, result.Enrollment.PaymentStatus)
	assert.Equal(t, 60.0, result.Enrollment.PaymentAmount)

	assert.Equal(t, 40.0, userBalance(t, db, buyer.ID))
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))

	// A completed purchase leaves exactly one PURCHASE ledger row.
	var txns []models.WalletTransaction
	require.NoError(t, db.Where("user_id = ?", buyer.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionTypePurchase, txns[0].TransactionType)
	assert.Equal(t, 60.0, txns[0].Amount)
	assert.Equal(t, 100.0, txns[0].BalanceBefore)
	assert.Equal(t, 40.0, txns[0].BalanceAfter)
	assert.Equal(t, course.ID, txns[0].CourseID)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 10)
	course := seedCourse(t, db, instructor.ID, 60)

	_, err := svc.Purchase(testCtx, buyer.ID, course.ID)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing may be observable: no balance change, no enrollment, no counter.
	assert.Equal(t, 10.0, userBalance(t, db, buyer.ID))
	assert.Equal(t, int64(0), courseCounter(t, db, course.ID))

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("student_id = ?", buyer.ID).Count(&enrollments)
	assert.Zero(t, enrollments)
}

func TestPurchaseAlreadyEnrolled(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 200)
	course := seedCourse(t, db, instructor.ID, 60)

	_, err := svc.Purchase(testCtx, buyer.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Purchase(testCtx, buyer.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	// The duplicate attempt never touched the balance.
	assert.Equal(t, 140.0, userBalance(t, db, buyer.ID))
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))
}

func TestPurchaseFreeCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 0)

	result, err := svc.Purchase(testCtx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.RemainingBalance)
	assert.Equal(t, models.PaymentFree, result.Enrollment.PaymentStatus)
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))
}

func TestPurchaseMissingEntities(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 100)
	course := seedCourse(t, db, instructor.ID, 10)

	_, err := svc.Purchase(testCtx, buyer.ID, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Purchase(testCtx, 9999, course.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCompensateRestoresBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 100)
	course := seedCourse(t, db, instructor.ID, 60)

	// Simulate the state after a debit whose enrollment creation failed.
	_, err := repository.NewUserRepository(db).DebitBalance(testCtx, buyer.ID, course.Price)
	require.NoError(t, err)

	svc.compensate(testCtx, buyer.ID, course, "test-reference")

	assert.Equal(t, 100.0, userBalance(t, db, buyer.ID))

	var txn models.WalletTransaction
	require.NoError(t, db.Where("user_id = ? AND reference = ?", buyer.ID, "test-reference").First(&txn).Error)
	assert.Equal(t, models.TransactionTypeRefund, txn.TransactionType)
	assert.Equal(t, models.TransactionStatusReverted, txn.Status)
	assert.Equal(t, 60.0, txn.Amount)
}

func TestPurchaseConcurrentSameCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	// Enough balance for every attempt, so the only possible failure mode is
	// the duplicate enrollment.
	buyer := seedUser(t, db, "buyer@example.com", models.RoleStudent, 240)
	course := seedCourse(t, db, instructor.ID, 60)

	const attempts = 4
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Purchase(testCtx, buyer.ID, course.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		}
	}

	// Exactly one attempt wins; every loser is compensated, so the balance
	// drops by exactly one course price.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 180.0, userBalance(t, db, buyer.ID))
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("student_id = ?", buyer.ID).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)
}
