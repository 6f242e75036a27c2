// Package language turns the language tags found in media stream metadata
// (ISO 639-1, ISO 639-2/T and /B codes, BCP 47 tags) into display names.
package language
