package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadSafeBuffer(t *testing.T) {
	t.Parallel()
	var b ThreadSafeBuffer
	assert.Nil(t, b.Lines())

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			_, _ = fmt.Fprintf(&b, "line %d\n", i)
		})
	}
	wg.Wait()
	assert.Len(t, b.Lines(), 10)

	_, _ = b.Write([]byte("partial"))
	assert.Len(t, b.Lines(), 10)

	b.Reset()
	assert.Empty(t, b.String())
}
