// Package process terminates the browser process tree started for PDF export.
// Chrome forks renderer and GPU helpers that outlive the main process unless
// the whole group is killed.
package process
