// Package qfit decodes ATM Level-1b QFIT binary granules: fixed-length
// records of 32-bit words carrying airborne lidar shots (position, elevation,
// pulse strengths, instrument attitude, and timing).
//
// The archive spans three undated format revisions with no version tag; the
// only self-describing signal is the leading word of the file, which holds
// the byte length of one record. DetectFormat resolves both the record
// length (10, 11, or 14 words) and the byte order from that word, ReadHeader
// interprets the header record and sizes the file, and Reader streams the
// data records one at a time, applying the per-field scale constants of the
// detected revision.
//
// Responsibilities end at structured, physically-scaled records. Converting
// the per-record GPS time to absolute UTC belongs to the gpstime package;
// export formats and archive retrieval stay outside this module.
package qfit
