package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLock(t *testing.T) {
	var lock BuildLock

	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire(), "held lock must not be reacquired")

	lock.Release()
	assert.True(t, lock.TryAcquire())
	lock.Release()
}
