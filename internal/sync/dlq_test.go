package sync

import (
	"context"
	"testing"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadLetterQueueWithoutRedis(t *testing.T) {
	q := NewDeadLetterQueue(nil)
	ctx := context.Background()

	assert.NoError(t, q.Push(ctx, model.EntityProduct, 1, "remote down"))

	items, err := q.Items(ctx, model.EntityProduct, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	depth, err := q.Depth(ctx, model.EntityProduct)
	require.NoError(t, err)
	assert.Zero(t, depth)
}
