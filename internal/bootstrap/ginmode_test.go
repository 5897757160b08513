package bootstrap

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	cases := map[string]string{
		"production":  gin.ReleaseMode,
		"staging":     gin.ReleaseMode,
		"test":        gin.TestMode,
		"development": gin.DebugMode,
		"":            gin.DebugMode,
	}
	for env, want := range cases {
		SetGinMode(env)
		assert.Equal(t, want, gin.Mode(), env)
	}
}
