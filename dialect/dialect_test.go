package dialect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxqb/dialect"
)

func TestSupported(t *testing.T) {
	assert.Equal(t, []dialect.Name{
		dialect.MariaDB,
		dialect.MSSQL,
		dialect.MySQL,
		dialect.Postgres,
		dialect.SQLite,
	}, dialect.Supported())

	// The returned slice is a copy.
	s := dialect.Supported()
	s[0] = "oracle"
	assert.Equal(t, dialect.MariaDB, dialect.Supported()[0])
}

func TestAssertSupported(t *testing.T) {
	for _, name := range dialect.Supported() {
		t.Run(string(name), func(t *testing.T) {
			assert.True(t, dialect.IsSupported(string(name)))
			require.NoError(t, dialect.AssertSupported(string(name)))
		})
	}

	for _, name := range []string{"", "oracle", "MySQL", "postgresql", "sqlite3", "db2", "mysql "} {
		t.Run("reject_"+name, func(t *testing.T) {
			assert.False(t, dialect.IsSupported(name))
			err := dialect.AssertSupported(name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dialect.ErrUnsupported))
			assert.Equal(t, "unsupported dialect: `"+name+"`", err.Error())
		})
	}
}

func TestParse(t *testing.T) {
	n, err := dialect.Parse("postgres")
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, n)

	_, err = dialect.Parse("oracle")
	assert.ErrorIs(t, err, dialect.ErrUnsupported)
}

func TestFamily(t *testing.T) {
	tests := []struct {
		name   dialect.Name
		family dialect.Family
	}{
		{dialect.MySQL, dialect.FamilyMySQL},
		{dialect.MariaDB, dialect.FamilyMySQL},
		{dialect.Postgres, dialect.FamilyPostgres},
		{dialect.MSSQL, dialect.FamilyMSSQL},
		{dialect.SQLite, dialect.FamilySQLite},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.family, tt.name.Family())
		})
	}
	assert.Panics(t, func() { dialect.Name("oracle").Family() })
	assert.Equal(t, "mysql", dialect.FamilyMySQL.String())
	assert.Equal(t, "Family(0)", dialect.Family(0).String())
}
