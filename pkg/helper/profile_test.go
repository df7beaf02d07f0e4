package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetProfilePath(t *testing.T) {
	// absolute path returns as-is
	assert.Equal(t, "/tmp/p.yaml", GetProfilePath("/tmp/p.yaml"))

	// relative path resolves against the working directory
	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	tmp := t.TempDir()
	_ = os.Chdir(tmp)
	got, _ := filepath.EvalSymlinks(filepath.Dir(GetProfilePath("p.yaml")))
	exp, _ := filepath.EvalSymlinks(tmp)
	assert.Equal(t, exp, got)

	// default lives under HOME
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", "/home/alice")
	assert.Equal(t, filepath.Join("/home/alice", ".npipe-admin", "profile.yaml"), GetProfilePath(""))
}
