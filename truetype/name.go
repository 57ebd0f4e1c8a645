// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// A NameID identifies a string in the font's name table.
type NameID uint16

const (
	NameCopyright NameID = iota
	NameFontFamily
	NameFontSubfamily
	NameUniqueSubfamilyID
	NameFullFontName
	NameVersion
	NamePostscriptName
)

// Name returns the name table string with the given id, preferring the
// Microsoft Unicode record over the Macintosh Roman one. It returns the
// empty string if the font carries no such record or if the record's
// encoding is not one of the two.
func (f *Font) Name(id NameID) string {
	if len(f.name) < 6 {
		return ""
	}
	count := int(u16(f.name, 2))
	stringOffset := int(u16(f.name, 4))
	if 6+12*count > len(f.name) {
		return ""
	}
	best := -1
	for i := 0; i < count; i++ {
		r := 6 + 12*i
		if NameID(u16(f.name, r+6)) != id {
			continue
		}
		pid, psid := u16(f.name, r), u16(f.name, r+2)
		switch {
		case pid == 3 && psid == 1: // Microsoft, UCS-2
			best = r
		case pid == 1 && psid == 0 && best < 0: // Macintosh, Roman
			best = r
		}
	}
	if best < 0 {
		return ""
	}
	length := int(u16(f.name, best+8))
	offset := stringOffset + int(u16(f.name, best+10))
	if offset+length > len(f.name) {
		return ""
	}
	raw := f.name[offset : offset+length]
	var dec transform.Transformer
	if u16(f.name, best) == 3 {
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	} else {
		dec = charmap.Macintosh.NewDecoder()
	}
	s, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return ""
	}
	return string(s)
}
