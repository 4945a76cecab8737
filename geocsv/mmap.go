package geocsv

import (
	"os"

	"github.com/tysonmote/gommap"
)

// MappedFile is a read-only memory-mapped view of a CSV file on disk, used
// by IngestFile once the source exceeds its mmap threshold. Adapted from the
// teacher's menfile.go, which memory-maps a write-append string pool with
// gommap.PROT_READ|PROT_WRITE; ingestion only ever reads, so this variant
// maps PROT_READ and never grows or truncates the backing file.
type MappedFile struct {
	file *os.File
	data gommap.MMap
}

// OpenMappedFile memory-maps path for reading. The returned MappedFile must
// be closed with Close when no longer needed.
func OpenMappedFile(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := gommap.Map(f.Fd(), gommap.PROT_READ, gommap.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedFile{file: f, data: m}, nil
}

// Bytes returns the file's full contents as a byte slice backed by the
// mapping; it is valid only until Close.
func (m *MappedFile) Bytes() []byte { return m.data }

// Close unmaps the file and closes the underlying descriptor.
func (m *MappedFile) Close() error {
	if err := m.data.UnsafeUnmap(); err != nil {
		m.file.Close()
		return err
	}
	return m.file.Close()
}
