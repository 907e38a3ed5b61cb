package fs

import (
	"os"

	"github.com/spf13/afero"
)

// AferoFS adapts an afero.Fs to FileSystem.
type AferoFS struct {
	Fs afero.Fs
}

// NewAferoFS wraps afs. If afs is nil, the OS file system is used.
func NewAferoFS(afs afero.Fs) *AferoFS {
	if afs == nil {
		afs = afero.NewOsFs()
	}
	return &AferoFS{Fs: afs}
}

func (a *AferoFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := a.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a *AferoFS) Remove(name string) error              { return a.Fs.Remove(name) }
func (a *AferoFS) Stat(name string) (os.FileInfo, error) { return a.Fs.Stat(name) }
