package export

import (
	"fmt"
	"runtime"
	"strings"
)

// lineBreak terminates every line of a text export
var lineBreak = platformLineBreak(runtime.GOOS)

func platformLineBreak(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// keyValue is one labelled field of a record. block forces the quoted
// multi-line rendering even when value fits on one line.
type keyValue struct {
	key   string
	value string
	block bool
}

// expects panics when a caller breaks the writer contract
func expects(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("export: "+format, args...))
	}
}

// serializeMultiline appends value as quoted lines, one per source line.
// A "\r" right before "\n" is part of the terminator.
func serializeMultiline(b *strings.Builder, value string) {
	if value == "" {
		return
	}
	for {
		newline := strings.IndexByte(value, '\n')
		line := value
		if newline >= 0 {
			line = strings.TrimSuffix(value[:newline], "\r")
		}
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString(lineBreak)
		if newline < 0 {
			return
		}
		value = value[newline+1:]
	}
}

// serializeKeyValue renders fields in order, dropping the empty ones
func serializeKeyValue(values []keyValue) string {
	var b strings.Builder
	for _, kv := range values {
		if kv.value == "" {
			continue
		}
		b.WriteString(kv.key)
		if kv.block || strings.IndexByte(kv.value, '\n') >= 0 {
			b.WriteString(":")
			b.WriteString(lineBreak)
			serializeMultiline(&b, kv.value)
		} else {
			b.WriteString(": ")
			b.WriteString(kv.value)
			b.WriteString(lineBreak)
		}
	}
	return b.String()
}

// serializeBlock renders fields as a nested record without its final line break
func serializeBlock(values []keyValue) string {
	return strings.TrimSuffix(serializeKeyValue(values), lineBreak)
}

// joinList concatenates list with exactly one separator between adjacent items
func joinList(separator string, list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	}

	size := (len(list) - 1) * len(separator)
	for _, value := range list {
		size += len(value)
	}

	var b strings.Builder
	b.Grow(size)
	for i, value := range list {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(value)
	}
	return b.String()
}
