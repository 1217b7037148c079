package metadata

// extractVideo is deliberately shallow: a media-type marker plus the
// sniffed content type. Deep container parsing (codecs, streams,
// duration) is a possible extension but not part of the contract.
func (e *Extractor) extractVideo(path string, rec Record) {
	rec["Media Type"] = "Video"
	if e.caps.SniffMIME != nil {
		rec["File Description"] = e.caps.SniffMIME(path)
	}
}
