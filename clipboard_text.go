package main

import (
	"bytes"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

// pasteExpression folds pasted text onto one line. Expressions copied from
// the web often span several lines or carry a trailing newline.
func pasteExpression(raw []byte) []byte {
	data := normalizePasteText(raw)
	data = bytes.TrimSpace(data)
	data = bytes.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, data)
	return capPasteText(data, bytebeat.MAX_SOURCE_LEN)
}
