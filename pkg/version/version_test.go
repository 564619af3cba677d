package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/scout/pkg/version"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Revision)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, info.Version, version.GetVersion())
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	info := version.Info{
		Version:   "v1.2.3",
		Revision:  "abc1234",
		GoVersion: "go1.25.0",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "scout v1.2.3 (revision abc1234, go1.25.0 linux/amd64)", info.String())
}
