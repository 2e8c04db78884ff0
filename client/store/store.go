// Package store implements the client-side domain stores. Every store reads
// the shared session at call time to decide between the local cache and the
// backend table API, mirrors loaded entities in memory, and mutates the
// mirror only after the backing storage accepted the change.
package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/client"
	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

// Table names on the backend table API
const (
	tableCourses         = "courses"
	tableStudents        = "students"
	tableEnrollments     = "enrollments"
	tableMonthlyPayments = "monthly_payments"
	tableAttendance      = "attendance"
)

// storeBase carries what every store shares: the session, the backend
// client, the mirror mutex, and the logger.
type storeBase struct {
	mu      sync.RWMutex
	table   string
	session *client.Session
	backend *remote.Client
	log     *logger.Logger
}

func newStoreBase(table string, session *client.Session, backend *remote.Client, log *logger.Logger) *storeBase {
	if log == nil {
		log = logger.NewNop()
	}
	return &storeBase{
		table:   table,
		session: session,
		backend: backend,
		log:     log,
	}
}

func (b *storeBase) cloud() bool {
	return b.session.IsCloud()
}

// remoteFailed logs a failed backend call and returns the wrapped error.
// The mirror is left untouched by the caller.
func (b *storeBase) remoteFailed(ctx context.Context, op string, err error) error {
	b.log.ErrorContext(ctx, "remote operation failed",
		zap.String("table", b.table), zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s %s: %w", op, b.table, err)
}
