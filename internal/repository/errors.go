// Package repository implements MySQL persistence for the booking
// domain.  Each table has its own repository type whose Tx-suffixed
// methods operate inside a caller-supplied transaction; Store in
// store.go binds them together into the unit of work the booking
// service consumes.  Row lookups translate sql.ErrNoRows into
// booking.ErrNotFound so higher layers never see database/sql errors.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/skylane/flight-reservation/internal/booking"
)

// MySQL server error numbers that indicate transactional contention.
// Both mean the transaction lost a race and can be retried by the
// caller.
const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

// translateContention maps MySQL deadlock and lock-wait-timeout errors
// to booking.ErrConflict.  Any other error is returned unchanged.
func translateContention(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrDeadlock, mysqlErrLockWaitTimeout:
			return fmt.Errorf("mysql error %d: %w", me.Number, booking.ErrConflict)
		}
	}
	return err
}
