// ABOUTME: Namespace prefix stripping for XML tag and attribute names
// ABOUTME: Turns qualified names like media:content into their local part

package field

import "strings"

// LocalName returns the part of a qualified XML name after the last colon.
// Names without a prefix are returned unchanged.
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
