package dialect

import (
	"errors"
	"fmt"
	"slices"
)

// Name identifies a database backend.
type Name string

// Supported dialect names.
const (
	MySQL    Name = "mysql"
	MariaDB  Name = "mariadb"
	Postgres Name = "postgres"
	MSSQL    Name = "mssql"
	SQLite   Name = "sqlite"
)

// ErrUnsupported is returned when a dialect name is not in the supported set.
var ErrUnsupported = errors.New("unsupported dialect")

// supported is the closed set of dialects. Keep it sorted.
var supported = []Name{MariaDB, MSSQL, MySQL, Postgres, SQLite}

// Supported returns the supported dialect names in lexical order.
func Supported() []Name {
	return slices.Clone(supported)
}

// IsSupported reports whether name is a supported dialect.
func IsSupported(name string) bool {
	_, found := slices.BinarySearch(supported, Name(name))
	return found
}

// AssertSupported returns an error wrapping ErrUnsupported if name is not a
// supported dialect.
func AssertSupported(name string) error {
	if !IsSupported(name) {
		return fmt.Errorf("%w: `%s`", ErrUnsupported, name)
	}
	return nil
}

// Parse validates name and returns it as a Name.
func Parse(name string) (Name, error) {
	if err := AssertSupported(name); err != nil {
		return "", err
	}
	return Name(name), nil
}

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }

// Family groups dialects that share wire behavior: placeholder style,
// parameter binding and result metadata.
type Family uint8

// Dialect families.
const (
	FamilyMySQL Family = iota + 1
	FamilyPostgres
	FamilyMSSQL
	FamilySQLite
)

// Family returns the family of the dialect. It panics on an unsupported
// name; callers validate names with Parse first.
func (n Name) Family() Family {
	switch n {
	case MySQL, MariaDB:
		return FamilyMySQL
	case Postgres:
		return FamilyPostgres
	case MSSQL:
		return FamilyMSSQL
	case SQLite:
		return FamilySQLite
	default:
		panic(fmt.Sprintf("dialect: family of unsupported dialect %q", string(n)))
	}
}

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case FamilyMySQL:
		return "mysql"
	case FamilyPostgres:
		return "postgres"
	case FamilyMSSQL:
		return "mssql"
	case FamilySQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}
