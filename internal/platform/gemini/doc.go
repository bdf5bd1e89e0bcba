// Package gemini implements training unit content extraction using
// Google's Gemini API. The content loader feeds it raw source material
// (scans, transcripts, rough notes) and gets back clean unit content
// ready for the hierarchy.
package gemini
