package output

import "sync/atomic"

// Stats collects byte and file counters across all files of one export
type Stats struct {
	files atomic.Int64
	bytes atomic.Int64
}

// IncrementFiles records a newly created file
func (s *Stats) IncrementFiles() {
	s.files.Add(1)
}

// IncrementBytes records count bytes written
func (s *Stats) IncrementBytes(count int) {
	s.bytes.Add(int64(count))
}

// FilesCount returns the number of files created
func (s *Stats) FilesCount() int {
	return int(s.files.Load())
}

// BytesCount returns the number of bytes written
func (s *Stats) BytesCount() int64 {
	return s.bytes.Load()
}
