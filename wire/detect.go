package wire

// DecodeEventAuto classifies a received buffer and decodes it as an
// Event. 0x4D is not a legal leading byte of any CSV event line (those
// start with A, X, T, B, R, Z), so one byte disambiguates.
func DecodeEventAuto(b []byte) (Event, error) {
	if len(b) >= 1 && b[0] == magic {
		return DecodeEventBinary(b)
	}
	return DecodeEventCSV(string(b))
}

// DecodeRequestAuto is the symmetric helper for the request direction,
// used by test stubs and by any peer receiving requests.
func DecodeRequestAuto(b []byte) (Request, error) {
	if len(b) >= 1 && b[0] == magic {
		return DecodeRequestBinary(b)
	}
	return DecodeRequestCSV(string(b))
}

// IsBinary reports whether b would be routed to the binary decoder.
func IsBinary(b []byte) bool {
	return len(b) >= 1 && b[0] == magic
}
