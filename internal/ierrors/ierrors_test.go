package ierrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New(t *testing.T) {
	err := New("could not start", "grammar build failed: 3 conflicts")
	assert.Equal(t, "grammar build failed: 3 conflicts", err.Error())
	assert.Equal(t, "could not start", Display(err))
}

func Test_New_EmptyTechnical(t *testing.T) {
	err := New("could not start", "")
	assert.Equal(t, `got fatal error("could not start")`, err.Error())
}

func Test_Wrap_Unwraps(t *testing.T) {
	cause := errors.New("file not found")
	err := Wrap(cause, "cannot read config", "os.ReadFile failed")
	assert.Equal(t, "os.ReadFile failed", err.Error())
	assert.Equal(t, "cannot read config", Display(err))
	assert.ErrorIs(t, err, cause)
}

func Test_Wrapf(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(cause, "cannot read %s", "config.toml")
	assert.Equal(t, "cannot read config.toml", Display(err))
}

func Test_Display_PlainError(t *testing.T) {
	err := errors.New("a plain error")
	assert.Equal(t, "a plain error", Display(err))
}
