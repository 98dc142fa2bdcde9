// Package speech defines the synthesis engine contract and the SSML document
// builder shared by every engine implementation. The concrete REST client
// lives in the azure subpackage; tests and the preview command rely on the
// Engine interface so they can substitute fakes.
package speech
