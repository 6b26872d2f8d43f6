package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	prevNoColor := color.NoColor
	color.NoColor = true

	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	SetOutput(&out, &errOut)

	t.Cleanup(func() {
		color.NoColor = prevNoColor
		SetOutput(prevOut, prevErr)
	})
	return &out, &errOut
}

func TestSuccess(t *testing.T) {
	out, _ := capture(t)

	Success("done %d\n", 3)
	Success("✓ already prefixed\n")

	assert.Equal(t, "✓ done 3\n✓ already prefixed\n", out.String())
}

func TestInfoStepWarning(t *testing.T) {
	out, _ := capture(t)

	Info("a=%d\n", 1)
	Step("next\n")
	Warning("careful\n")

	assert.Contains(t, out.String(), "a=1\n")
	assert.Contains(t, out.String(), "→ next\n")
	assert.Contains(t, out.String(), "⚠️  careful\n")
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		_, errOut := capture(t)

		err := Error("Test Error", "This is a test error", nil)
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
		assert.Contains(t, errOut.String(), "This is a test error")
	})

	t.Run("lists multiple suggestions", func(t *testing.T) {
		_, errOut := capture(t)

		err := Error("Test Error", "Explanation", []string{"First option", "Second option"})
		require.Error(t, err)
		assert.Contains(t, errOut.String(), "  1. First option\n")
		assert.Contains(t, errOut.String(), "  2. Second option\n")
	})
}

func TestRaw(t *testing.T) {
	out, _ := capture(t)
	Raw([]byte(`{"a":1}`))
	assert.Equal(t, "{\"a\":1}\n", out.String())
}
