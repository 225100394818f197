package svglive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerDropsStaleTick(t *testing.T) {
	d := debouncer{delay: 50 * time.Millisecond}
	assert.Nil(t, d.C())

	d.reset()
	time.Sleep(100 * time.Millisecond) // fired, not received
	d.reset()

	select {
	case <-d.C():
		t.Fatal("tick before the end of the delay")
	case <-time.After(20 * time.Millisecond):
	}
	select {
	case <-d.C():
	case <-time.After(2 * time.Second):
		t.Fatal("missing tick")
	}

	d.stop()
	assert.Nil(t, d.C())
}
