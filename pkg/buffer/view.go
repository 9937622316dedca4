// Package buffer provides the byte-slice type used to hold fragment
// payloads and reassembled datagrams as they move through the engine.
package buffer

// View is an owned, contiguous byte slice. Every fragment the engine
// stores and every datagram it hands back to a caller is a View.
type View []byte

// NewViewFromBytes copies b into a new, independently owned View.
func NewViewFromBytes(b []byte) View {
	return append(View(nil), b...)
}

// TrimFront removes the first count bytes of the view in place.
func (v *View) TrimFront(count int) {
	*v = (*v)[count:]
}

// CapLength truncates the view to length bytes in place.
func (v *View) CapLength(length int) {
	*v = (*v)[:length:length]
}
