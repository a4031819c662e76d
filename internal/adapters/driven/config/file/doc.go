// Package file stores multisearch configuration as TOML on local disk.
//
// ConfigStore flattens nested tables into dot keys such as
// "sources.github.enabled", notifies subscribers after every Set, and can
// watch the file so edits made in an editor reach a running session.
package file
