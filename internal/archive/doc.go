// Package archive turns synthesized voice trees into sample pack archives.
//
// The output tree is laid out as language/REGION/voice. Only directories at
// exactly that depth are leaves; anything shallower or deeper is ignored, so
// stray files and nested folders never produce archives. Each leaf becomes a
// <language>-<region>-<voice>.zip holding the files directly inside it.
//
// The publish directory is cleared and recreated before any archive is
// written. Archives are built in scratch space and moved into place with a
// cross-device-safe rename, so the publish directory never holds a partially
// written zip. Source leaves are left untouched.
package archive
