// Package intake turns an uploaded Microsoft Safety Scanner log into the
// email that forwards it.
//
// Scan logs are named <prefix>_<computer>.<ext> by the collection script.
// The computer name is read from the sanitized filename while the attachment
// keeps the filename the client sent. Filenames that do not follow the
// convention are rejected with ErrMalformedFilename; no fallback name is
// substituted.
package intake
