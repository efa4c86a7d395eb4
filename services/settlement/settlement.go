// Package settlement moves course payments between wallets.
//
// A student's payment is held by the platform admin until the course
// instructor decides the request. Approval pays the instructor share and
// keeps the commission with the admin; rejection refunds the full amount.
// Every movement runs inside a single database transaction together with the
// status changes it belongs to.
package settlement

import (
	"edulearn/config"
	"edulearn/logger"
	"edulearn/models"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome is the state of an enrollment after a settlement step.
type Outcome struct {
	Transaction models.Transaction
	Enrollment  models.CourseEnrollment
}

// PlatformAdmin returns the admin that holds enrollment payments: the first admin registered.
func PlatformAdmin(db *gorm.DB) (models.User, error) {
	var admin models.User
	err := db.Where("role = ? AND is_deleted = false", models.RoleAdmin).Order("id").First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return admin, ErrAdminNotFound
	}
	return admin, err
}

func commissionPercent() int64 {
	if config.AppConfig == nil {
		return 20
	}
	return config.AppConfig.AdminCommissionPercent
}

// RequestEnrollment reserves the course price from the student's wallet into
// the admin wallet and records a pending enrollment.
func RequestEnrollment(db *gorm.DB, studentID, courseID uint, secretKey string) (*Outcome, error) {
	var out Outcome

	err := db.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		if course.CreatedBy == studentID {
			return ErrSelfEnrollment
		}

		var student models.User
		if err := tx.Where("id = ? AND is_deleted = false", studentID).First(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		var instructor models.User
		if err := tx.Where("id = ?", course.CreatedBy).First(&instructor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInstructorNotFound
			}
			return err
		}

		var enrollment models.CourseEnrollment
		found := true
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ? AND student_id = ?", courseID, studentID).
			First(&enrollment).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			found = false
		}
		if found {
			switch enrollment.Status {
			case models.EnrollmentPending:
				return ErrAlreadyPending
			case models.EnrollmentApproved:
				return ErrAlreadyEnrolled
			}
		}

		adminID := course.AdminID
		if adminID == 0 {
			admin, err := PlatformAdmin(tx)
			if err != nil {
				return err
			}
			adminID = admin.ID
		}

		banks, err := LockBanks(tx, studentID, adminID)
		if err != nil {
			return err
		}
		studentBank, ok := banks[studentID]
		if !ok {
			return ErrBankNotFound
		}
		adminBank, ok := banks[adminID]
		if !ok {
			return ErrAdminBankNotFound
		}

		if bcrypt.CompareHashAndPassword([]byte(studentBank.SecretKey), []byte(secretKey)) != nil {
			return ErrInvalidSecret
		}
		if studentBank.Balance.LessThan(course.Price) {
			return ErrInsufficientBalance
		}

		commission, share := Split(course.Price, commissionPercent())
		txn := models.Transaction{
			AdminID:         adminID,
			CourseID:        course.ID,
			CourseName:      course.Title,
			InstructorID:    instructor.ID,
			InstructorName:  instructor.Fullname,
			InstructorEmail: instructor.Email,
			UserID:          student.ID,
			UserName:        student.Fullname,
			UserEmail:       student.Email,
			TotalAmount:     course.Price,
			AdminCommission: commission,
			InstructorShare: share,
			Provider:        studentBank.Provider,
			Status:          models.TransactionPending,
			BankRefID:       uuid.NewString(),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		note := fmt.Sprintf("Enrollment payment for %q", course.Title)
		if err := move(tx, studentBank, adminBank, course.Price,
			models.EntryEnrollmentHold, models.EntryEnrollmentReceipt, txn.ID, note); err != nil {
			return err
		}

		enrollment.CourseID = course.ID
		enrollment.StudentID = studentID
		enrollment.Status = models.EnrollmentPending
		enrollment.TransactionID = txn.ID
		enrollment.DecidedAt = nil
		if err := tx.Save(&enrollment).Error; err != nil {
			// a concurrent request for the same course won the unique index
			if isDuplicateKey(err) {
				return ErrAlreadyPending
			}
			return err
		}

		out = Outcome{Transaction: txn, Enrollment: enrollment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideEnrollment approves or rejects a pending enrollment. actorID must own
// the course or be an admin. A decided enrollment can never be decided again.
func DecideEnrollment(db *gorm.DB, actorID, courseID, studentID uint, status string) (*Outcome, error) {
	if status != models.EnrollmentApproved && status != models.EnrollmentRejected {
		return nil, ErrInvalidStatus
	}

	var out Outcome
	err := db.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Where("id = ?", courseID).First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var actor models.User
		if err := tx.Where("id = ? AND is_deleted = false", actorID).First(&actor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAllowed
			}
			return err
		}
		if course.CreatedBy != actor.ID && actor.Role != models.RoleAdmin {
			return ErrNotAllowed
		}

		var enrollment models.CourseEnrollment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ? AND student_id = ?", courseID, studentID).
			First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		o, err := decide(tx, &enrollment, status, actor.ID)
		if err != nil {
			return err
		}
		out = *o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpireStale rejects, with a refund, every enrollment left pending for longer
// than olderThan. Each enrollment settles in its own transaction; one that
// fails is logged and skipped, and the failures are returned joined.
func ExpireStale(db *gorm.DB, olderThan time.Duration) ([]Outcome, error) {
	if olderThan <= 0 {
		return nil, nil
	}

	var stale []models.CourseEnrollment
	if err := db.Where("status = ? AND updated_at < ?", models.EnrollmentPending, time.Now().Add(-olderThan)).
		Order("id").
		Find(&stale).Error; err != nil {
		return nil, err
	}

	var expired []Outcome
	var errs []error
	for _, e := range stale {
		var o *Outcome
		err := db.Transaction(func(tx *gorm.DB) error {
			var enrollment models.CourseEnrollment
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&enrollment, e.ID).Error; err != nil {
				return err
			}
			var err error
			o, err = decide(tx, &enrollment, models.EnrollmentRejected, 0)
			return err
		})
		if errors.Is(err, ErrAlreadyDecided) {
			continue
		}
		if err != nil {
			logger.Log.Error("expiring enrollment",
				zap.Uint("enrollmentId", e.ID),
				zap.Uint("courseId", e.CourseID),
				zap.Uint("studentId", e.StudentID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("expire enrollment %d: %w", e.ID, err))
			continue
		}
		expired = append(expired, *o)
	}
	return expired, errors.Join(errs...)
}

// decide settles a locked enrollment and flips it and its transaction to status.
func decide(tx *gorm.DB, enrollment *models.CourseEnrollment, status string, actorID uint) (*Outcome, error) {
	if enrollment.Status != models.EnrollmentPending {
		return nil, ErrAlreadyDecided
	}

	var txn models.Transaction
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&txn, enrollment.TransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if txn.Status != models.TransactionPending {
		return nil, ErrAlreadyDecided
	}

	switch status {
	case models.EnrollmentApproved:
		banks, err := LockBanks(tx, txn.AdminID, txn.InstructorID)
		if err != nil {
			return nil, err
		}
		adminBank, ok := banks[txn.AdminID]
		if !ok {
			return nil, ErrAdminBankNotFound
		}
		instructorBank, ok := banks[txn.InstructorID]
		if !ok {
			return nil, ErrInstructorBankNotFound
		}
		note := fmt.Sprintf("Instructor share for %q", txn.CourseName)
		if err := move(tx, adminBank, instructorBank, txn.InstructorShare,
			models.EntryInstructorPayout, models.EntryInstructorEarning, txn.ID, note); err != nil {
			return nil, err
		}

		perf := models.Performance{StudentID: enrollment.StudentID, CourseID: enrollment.CourseID}
		if err := tx.Where(models.Performance{StudentID: enrollment.StudentID, CourseID: enrollment.CourseID}).
			Attrs(models.Performance{CompleteLectures: []uint{}}).
			FirstOrCreate(&perf).Error; err != nil {
			return nil, err
		}

	case models.EnrollmentRejected:
		banks, err := LockBanks(tx, txn.AdminID, txn.UserID)
		if err != nil {
			return nil, err
		}
		adminBank, ok := banks[txn.AdminID]
		if !ok {
			return nil, ErrAdminBankNotFound
		}
		studentBank, ok := banks[txn.UserID]
		if !ok {
			return nil, ErrBankNotFound
		}
		note := fmt.Sprintf("Refund for %q", txn.CourseName)
		if err := move(tx, adminBank, studentBank, txn.TotalAmount,
			models.EntryRefund, models.EntryRefundReturn, txn.ID, note); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", txn.ID, models.TransactionPending).
		Updates(map[string]interface{}{"status": status, "decided_by": actorID, "decided_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		return nil, ErrAlreadyDecided
	}
	txn.Status = status
	txn.DecidedBy = actorID
	txn.DecidedAt = &now

	if err := tx.Model(enrollment).Updates(map[string]interface{}{"status": status, "decided_at": now}).Error; err != nil {
		return nil, err
	}
	enrollment.Status = status
	enrollment.DecidedAt = &now

	return &Outcome{Transaction: txn, Enrollment: *enrollment}, nil
}

// isDuplicateKey reports a unique index violation. Drivers that do not
// translate their errors are matched on the message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
