// Package compositor renders background-free cutouts onto a shaped canvas.
// Rendering is a pure function of the cutout, the settings document, and the
// per-item overrides; nothing is cached between calls.
package compositor
