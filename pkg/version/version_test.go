package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	req := require.New(t)
	info := Get()
	req.NotEmpty(info.Version)
	req.Equal(runtime.Version(), info.GoVersion)
	req.Equal(runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	req.True(strings.HasPrefix(info.String(), "codemerge version "+info.Version+"\n"))
}

func TestGet_linkTimeValuesWin(t *testing.T) {
	req := require.New(t)
	defer func(version, commit string) { Version, GitCommit = version, commit }(Version, GitCommit)
	Version, GitCommit = "v1.2.3", "abc123"

	info := Get()
	req.Equal("v1.2.3", info.Version)
	req.Equal("abc123", info.GitCommit)
}
