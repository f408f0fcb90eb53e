package messaging_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/serroba/url-shorten/internal/messaging"
	"github.com/stretchr/testify/assert"
)

func TestPermanent(t *testing.T) {
	base := errors.New("boom")

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, messaging.Permanent(nil))
	})

	t.Run("marked error keeps its chain", func(t *testing.T) {
		err := messaging.Permanent(base)

		assert.True(t, messaging.IsPermanent(err))
		assert.ErrorIs(t, err, base)
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("handle: %w", messaging.Permanent(base))

		assert.True(t, messaging.IsPermanent(err))
	})

	t.Run("plain error is not permanent", func(t *testing.T) {
		assert.False(t, messaging.IsPermanent(base))
	})
}
