package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	qt "github.com/frankban/quicktest"
)

func TestIncrWindow(t *testing.T) {
	c := qt.New(t)
	mr := miniredis.RunT(t)

	client, err := Connect("redis://" + mr.Addr())
	c.Assert(err, qt.IsNil)
	defer client.Close()

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		n, left, err := client.IncrWindow(ctx, "rl:login:1.2.3.4", time.Minute)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, want)
		c.Assert(left > 0 && left <= time.Minute, qt.IsTrue)
	}

	mr.FastForward(time.Minute + time.Second)
	n, _, err := client.IncrWindow(ctx, "rl:login:1.2.3.4", time.Minute)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(1))
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect("not a url")
	qt.Assert(t, err, qt.ErrorMatches, "invalid redis url: .*")
}

func TestDeletePrefix(t *testing.T) {
	c := qt.New(t)
	mr := miniredis.RunT(t)
	client, err := Connect("redis://" + mr.Addr())
	c.Assert(err, qt.IsNil)
	defer client.Close()

	for _, k := range []string{"page:/", "page:/posts/1/", "rl:login:1.2.3.4"} {
		c.Assert(mr.Set(k, "x"), qt.IsNil)
	}
	n, err := client.DeletePrefix(context.Background(), "page:")
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(2))
	c.Assert(mr.Keys(), qt.DeepEquals, []string{"rl:login:1.2.3.4"})

	n, err = client.Del(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(0))
}
