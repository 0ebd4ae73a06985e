package store

import (
	"fmt"
	"sort"
	"sync"
)

/*
A delegating Directory that records which files were created through
it, so a writer failing half way can remove exactly what it wrote.
*/
type TrackingDirectoryWrapper struct {
	Directory
	sync.Mutex
	createdFilenames map[string]bool
}

func NewTrackingDirectoryWrapper(other Directory) *TrackingDirectoryWrapper {
	return &TrackingDirectoryWrapper{
		Directory:        other,
		createdFilenames: make(map[string]bool),
	}
}

func (w *TrackingDirectoryWrapper) DeleteFile(name string) error {
	w.Lock()
	delete(w.createdFilenames, name)
	w.Unlock()
	return w.Directory.DeleteFile(name)
}

func (w *TrackingDirectoryWrapper) CreateOutput(name string, ctx IOContext) (IndexOutput, error) {
	out, err := w.Directory.CreateOutput(name, ctx)
	if err != nil {
		return nil, err
	}
	w.Lock()
	w.createdFilenames[name] = true
	w.Unlock()
	return out, nil
}

// Sorted names of the files created and not deleted since.
func (w *TrackingDirectoryWrapper) CreatedFiles() []string {
	w.Lock()
	defer w.Unlock()
	names := make([]string, 0, len(w.createdFilenames))
	for name := range w.createdFilenames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *TrackingDirectoryWrapper) ContainsFile(name string) bool {
	w.Lock()
	defer w.Unlock()
	return w.createdFilenames[name]
}

func (w *TrackingDirectoryWrapper) String() string {
	return fmt.Sprintf("TrackingDirectoryWrapper(%v)", w.Directory)
}
