package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutConstants(t *testing.T) {
	t.Run("media timeout outlasts ordinary HTTP calls", func(t *testing.T) {
		assert.Greater(t, DefaultMediaTimeout, DefaultHTTPTimeout)
		assert.GreaterOrEqual(t, DefaultMediaTimeout, 5*time.Minute, "video generation takes minutes")
	})

	t.Run("poll interval is short relative to media timeout", func(t *testing.T) {
		assert.Less(t, DefaultPollInterval, DefaultMediaTimeout/10)
	})
}

func TestArtifactDisplayLimit(t *testing.T) {
	assert.Equal(t, 500, ArtifactDisplayLimit)
}

func TestEngineDefaults(t *testing.T) {
	assert.Positive(t, DefaultBatchWorkers)
	assert.Positive(t, DefaultBrowserMaxSteps)
	assert.Equal(t, 8, ShortIDLength)
}
