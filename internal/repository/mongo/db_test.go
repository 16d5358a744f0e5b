package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, translate(nil))
	require.ErrorIs(t, translate(mongo.ErrNoDocuments), ports.ErrNotFound)
	require.ErrorIs(t, translate(fmt.Errorf("decode: %w", mongo.ErrNoDocuments)), ports.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	require.ErrorIs(t, translate(dup), ports.ErrDuplicate)

	other := errors.New("connection reset")
	require.Equal(t, other, translate(other))
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(20, 40)
	require.NotNil(t, opts.Limit)
	require.EqualValues(t, 20, *opts.Limit)
	require.NotNil(t, opts.Skip)
	require.EqualValues(t, 40, *opts.Skip)

	unbounded := findOptions(0, 0)
	require.Nil(t, unbounded.Limit)
	require.Nil(t, unbounded.Skip)
}
