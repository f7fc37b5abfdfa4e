package youtube_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autopost/infrastructure/clients/youtube"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 59, youtube.ParseDuration("PT59S"))
	assert.Equal(t, 60, youtube.ParseDuration("PT1M"))
	assert.Equal(t, 90, youtube.ParseDuration("PT1M30S"))
	assert.Equal(t, 3661, youtube.ParseDuration("PT1H1M1S"))
	assert.Equal(t, 0, youtube.ParseDuration("garbage"))
}

func TestIsShortVideo(t *testing.T) {
	// Under a minute and portrait
	assert.True(t, youtube.IsShortVideo(45, 1080, 1920))
	// Too long
	assert.False(t, youtube.IsShortVideo(75, 1080, 1920))
	// Landscape
	assert.False(t, youtube.IsShortVideo(45, 1920, 1080))
}
