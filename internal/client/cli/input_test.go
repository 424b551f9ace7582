package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  Honda  \n"))

	got, err := GetSimpleText(reader, "Team", &out)
	require.NoError(t, err)
	assert.Equal(t, "Honda", got)
	assert.Contains(t, out.String(), "Team")
}

func TestGetSimpleText_PartialLineOnEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("Yamaha"))

	got, err := GetSimpleText(reader, "Team", &out)
	require.NoError(t, err)
	assert.Equal(t, "Yamaha", got)
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("500\n"))

	got, err := GetInt(reader, "Engine capacity", &out)
	require.NoError(t, err)
	assert.Equal(t, 500, got)
}

func TestGetInt_NotANumber(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("fast\n"))

	_, err := GetInt(reader, "Engine capacity", &out)
	assert.Error(t, err)
}
