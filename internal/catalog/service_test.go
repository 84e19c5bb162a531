package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestBrowseRejectsMalformedCursor(t *testing.T) {
	svc, err := NewService(NewRepository(nil))
	require.NoError(t, err)

	_, err = svc.Browse(context.Background(), BrowseInput{Cursor: "not-base64!!"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestProductDetailRequiresSlug(t *testing.T) {
	svc, err := NewService(NewRepository(nil))
	require.NoError(t, err)

	_, err = svc.ProductDetail(context.Background(), "")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
