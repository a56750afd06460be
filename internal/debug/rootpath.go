package debug

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// BasePathEnv names the environment variable that pins the root path.
const BasePathEnv = "BACKTRACE_BASE_PATH"

var rootPath = sync.OnceValue(func() string {
	return resolveRootPath(os.Getenv)
})

// RootPath returns the directory that file locations are shortened against.
// It is computed on first use and never changes afterwards.
func RootPath() string {
	return rootPath()
}

func resolveRootPath(getenv func(string) string) string {
	if bp := getenv(BasePathEnv); bp != "" {
		return bp
	}
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	// one level above this package's directory
	return filepath.Dir(filepath.Dir(file))
}
