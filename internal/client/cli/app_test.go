package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culbec/motocontest/internal/common"
)

func TestApp_LogoutWithoutSession(t *testing.T) {
	silencePrintln(t)

	a := &App{}

	var err error
	require.NotPanics(t, func() { err = a.Logout(context.Background()) })
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
}
