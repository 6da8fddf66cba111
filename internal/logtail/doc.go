// Package logtail reads the end of farmer's log file for the background
// indicator.
//
// # Reading
//
// Read seeks to the last DefaultWindow bytes of the file and keeps the
// final maxLines lines in a ring buffer, so the cost does not grow with the
// log. When the window starts in the middle of the file its first line is
// incomplete and is discarded. Lines are returned oldest first.
//
//	lines, err := logtail.Read(cfg.LogFile, 6)
//
// # Errors
//
// A missing file returns nil, nil; the indicator usually starts before the
// first line is written. Other open, seek or scan failures are wrapped.
package logtail
