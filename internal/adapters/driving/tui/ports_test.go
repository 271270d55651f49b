package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := &Ports{Analyzer: &fakeAnalyzer{}, InputDir: "data/test"}
		assert.NoError(t, p.Validate())
	})

	t.Run("missing analyzer", func(t *testing.T) {
		p := &Ports{InputDir: "data/test"}
		assert.ErrorIs(t, p.Validate(), ErrMissingAnalyzer)
	})

	t.Run("missing input dir", func(t *testing.T) {
		p := &Ports{Analyzer: &fakeAnalyzer{}}
		assert.ErrorIs(t, p.Validate(), ErrMissingPort)
	})
}
