package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultEmbed(t *testing.T) {
	embed := resultEmbed(12, "Affected IDs: `1`", "7")
	assert.Equal(t, "Purged a total of `12` messages.", embed.Title)
	assert.Equal(t, "Affected IDs: `1`", embed.Description)
	assert.Equal(t, "Purged by 7", embed.Footer.Text)
}
