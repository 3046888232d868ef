package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/internal/config"
	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/testutil"
)

func TestMigrateAndPing(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)

	c.Assert(database.Ping(context.Background(), db), qt.IsNil)
	for _, table := range []string{"users", "user_sessions", "categories", "locations", "posts", "comments"} {
		c.Assert(db.Migrator().HasTable(table), qt.IsTrue, qt.Commentf("table %s", table))
	}
	c.Assert(db.Migrator().HasColumn(&models.PostModel{}, "comment_count"), qt.IsFalse)
}

func TestUniqueSlugIsDuplicate(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)
	testutil.CreateCategory(t, db, "travel", true)

	err := db.Create(&models.CategoryModel{Title: "Again", Slug: "travel"}).Error
	c.Assert(err, qt.IsNotNil)
	c.Assert(database.IsDuplicate(err), qt.IsTrue)
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "mysql 1062", err: fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1045}, want: false},
		{name: "postgres 23505", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres other", err: &pgconn.PgError{Code: "42P01"}, want: false},
		{name: "unrelated", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.Assert(t, database.IsDuplicate(tt.err), qt.Equals, tt.want)
		})
	}
}

func TestDialector(t *testing.T) {
	c := qt.New(t)

	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres, config.DriverSQLite} {
		d, err := database.Dialector(driver, "dsn")
		c.Assert(err, qt.IsNil)
		c.Assert(d, qt.IsNotNil)
	}
	_, err := database.Dialector("oracle", "dsn")
	c.Assert(err, qt.ErrorMatches, `unsupported database driver "oracle"`)
}
