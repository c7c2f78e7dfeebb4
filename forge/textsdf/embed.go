package textsdf

import (
	"golang.org/x/image/font/gofont/gomono"
)

// GoMonoTTF returns the Go Mono true type font file.
func GoMonoTTF() []byte {
	return append([]byte{}, gomono.TTF...) // copy contents.
}
