package location

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/blogicum/blogicum/internal/testutil"
)

func TestCreateAndList(t *testing.T) {
	c := qt.New(t)
	svc := NewService(testutil.NewDB(t))

	_, err := svc.Create(" Санкт-Петербург ", true)
	c.Assert(err, qt.IsNil)
	_, err = svc.Create("Atlantis", false)
	c.Assert(err, qt.IsNil)
	_, err = svc.Create("Berlin", true)
	c.Assert(err, qt.IsNil)

	published, err := svc.ListPublished()
	c.Assert(err, qt.IsNil)
	c.Assert(published, qt.HasLen, 2)
	c.Assert(published[0].Name, qt.Equals, "Berlin")
	c.Assert(published[1].Name, qt.Equals, "Санкт-Петербург")

	all, err := svc.List()
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 3)
}

func TestCreateValidates(t *testing.T) {
	svc := NewService(testutil.NewDB(t))
	_, err := svc.Create("   ", true)
	qt.Assert(t, err, qt.Equals, ErrEmptyName)
	_, err = svc.Create(strings.Repeat("я", 257), true)
	qt.Assert(t, err, qt.Equals, ErrNameTooLong)
}
