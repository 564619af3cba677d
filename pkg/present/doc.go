// Package present renders agent suggestions for people and for programs.
package present
