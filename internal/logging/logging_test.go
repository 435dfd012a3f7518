package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l = New(&buf, true)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, false), "plaid")
	l.Info("request")
	assert.Contains(t, buf.String(), "component=plaid")
}
