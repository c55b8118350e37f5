package view

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestShow(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	assert.False(t, term.Visible("text-submit-success"))
	term.Show("text-submit-success")

	assert.True(t, term.Visible("text-submit-success"))
	assert.Equal(t, "Success! Your submission was received.\n", out.String())
}

func TestShowUnknownElementPrintsID(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.Show("banner")

	assert.Equal(t, "banner\n", out.String())
}

func TestAlertAndFail(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.Alert("Invalid Input")
	term.Fail(errors.New("boom"))

	assert.Equal(t, []string{"Invalid Input"}, term.Alerts())
	assert.Len(t, term.Failures(), 1)
	assert.Equal(t, "Invalid Input\nSubmission failed: boom\n", out.String())
}
