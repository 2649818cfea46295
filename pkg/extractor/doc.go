// Package extractor recovers downloadable media links from the HTML of a
// third-party downloader page.
//
// The extraction is heuristic: it scans anchors whose class or href looks
// like a download button, plus <video><source> elements, classifies each
// candidate as video or image by extension and link text, and derives
// best-effort quality and size labels from the surrounding text. There is
// no schema contract with the third party, so the rule set lives behind
// the Extractor interface and can be replaced when the upstream markup
// changes.
package extractor
