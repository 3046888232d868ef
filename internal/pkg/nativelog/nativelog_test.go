package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestWriterRollsDaily(t *testing.T) {
	c := qt.New(t)
	dir := filepath.Join(t.TempDir(), "logs")

	w, err := NewWriter(dir)
	c.Assert(err, qt.IsNil)

	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	_, err = w.Write([]byte("first\n"))
	c.Assert(err, qt.IsNil)

	day = day.Add(2 * time.Minute)
	_, err = w.Write([]byte("second\n"))
	c.Assert(err, qt.IsNil)

	first, err := os.ReadFile(filepath.Join(dir, "blogicum_2024-03-09.log"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(first), qt.Equals, "first\n")

	second, err := os.ReadFile(filepath.Join(dir, "blogicum_2024-03-10.log"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(second), qt.Equals, "second\n")
}

func TestWriterIgnoresEmptyWrites(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	qt.Assert(t, err, qt.IsNil)

	n, err := w.Write(nil)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, n, qt.Equals, 0)

	_, err = os.Stat(w.Path())
	qt.Assert(t, os.IsNotExist(err), qt.IsTrue)
}
