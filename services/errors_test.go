package services

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-backend/repositories"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "Thing not found", ""))

	err := translate(errors.Wrap(repositories.ErrNotFound, "failed to get thing"), "Thing not found", "")
	requireServiceError(t, err, http.StatusNotFound, "Thing not found")

	err = translate(errors.Wrap(repositories.ErrDuplicateKey, "failed to save thing"), "Thing not found", "Thing exists")
	requireServiceError(t, err, http.StatusConflict, "Thing exists")

	err = translate(errors.Wrap(repositories.ErrDuplicateKey, "failed to update order"), orderNotFound, "")
	requireServiceError(t, err, http.StatusConflict, duplicateRecord)

	plain := errors.New("connection reset")
	err = translate(plain, "Thing not found", "")
	_, isSvc := AsError(err)
	require.False(t, isSvc)
	assert.Equal(t, plain, err)
}
