package sql

import (
	"errors"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Constraint classifies a constraint violation reported by a database.
type Constraint uint8

// Constraint kinds.
const (
	NoConstraint Constraint = iota
	UniqueConstraint
	ForeignKeyConstraint
	CheckConstraint
)

// String implements fmt.Stringer.
func (c Constraint) String() string {
	switch c {
	case UniqueConstraint:
		return "unique"
	case ForeignKeyConstraint:
		return "foreign key"
	case CheckConstraint:
		return "check"
	default:
		return "none"
	}
}

// PostgreSQL SQLSTATE codes (class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451 // cannot delete or update a parent row
	mysqlForeignKeyChild  = 1452 // cannot add or update a child row
	mysqlCheckViolation   = 3819
)

// SQL Server error numbers.
const (
	mssqlUniqueConstraint = 2627
	mssqlUniqueIndex      = 2601
	mssqlReferenceOrCheck = 547
)

// SQLite extended result codes.
const (
	sqliteCheck      = 275
	sqliteForeignKey = 787
	sqlitePrimaryKey = 1555
	sqliteUnique     = 2067
)

// ConstraintOf returns the kind of constraint violation err reports, or
// NoConstraint. Query errors are returned unmodified by the driver, so err
// may be inspected directly.
func ConstraintOf(err error) Constraint {
	if err == nil {
		return NoConstraint
	}
	var (
		pqErr     *pq.Error
		mysqlErr  *mysql.MySQLError
		mssqlErr  mssql.Error
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pqErr):
		switch pqErr.Code {
		case pgUniqueViolation:
			return UniqueConstraint
		case pgForeignKeyViolation:
			return ForeignKeyConstraint
		case pgCheckViolation:
			return CheckConstraint
		}
	case errors.As(err, &mysqlErr):
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return UniqueConstraint
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return ForeignKeyConstraint
		case mysqlCheckViolation:
			return CheckConstraint
		}
	case errors.As(err, &mssqlErr):
		switch mssqlErr.Number {
		case mssqlUniqueConstraint, mssqlUniqueIndex:
			return UniqueConstraint
		case mssqlReferenceOrCheck:
			// 547 covers both; the message names the constraint type.
			if strings.Contains(mssqlErr.Message, "CHECK constraint") {
				return CheckConstraint
			}
			return ForeignKeyConstraint
		}
	case errors.As(err, &sqliteErr):
		switch sqliteErr.Code() {
		case sqliteUnique, sqlitePrimaryKey:
			return UniqueConstraint
		case sqliteForeignKey:
			return ForeignKeyConstraint
		case sqliteCheck:
			return CheckConstraint
		}
	}
	return constraintFromMessage(err.Error())
}

// constraintFromMessage matches the messages of drivers whose errors carry
// no code.
func constraintFromMessage(msg string) Constraint {
	switch {
	case containsAny(msg, "Error 1062", "violates unique constraint", "UNIQUE constraint failed"):
		return UniqueConstraint
	case containsAny(msg, "Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"):
		return ForeignKeyConstraint
	case containsAny(msg, "Error 3819", "violates check constraint", "CHECK constraint failed"):
		return CheckConstraint
	default:
		return NoConstraint
	}
}

// IsConstraintError reports whether err is a constraint violation.
func IsConstraintError(err error) bool {
	return ConstraintOf(err) != NoConstraint
}

// IsUniqueConstraintError reports whether err is a uniqueness violation.
func IsUniqueConstraintError(err error) bool {
	return ConstraintOf(err) == UniqueConstraint
}

// IsForeignKeyConstraintError reports whether err is a foreign key violation.
func IsForeignKeyConstraintError(err error) bool {
	return ConstraintOf(err) == ForeignKeyConstraint
}

// IsCheckConstraintError reports whether err is a check constraint violation.
func IsCheckConstraintError(err error) bool {
	return ConstraintOf(err) == CheckConstraint
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
