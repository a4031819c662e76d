// Package navigation implements driven.Navigator with shareable locations of
// the form multisearch://search?q=<query>.
package navigation
