// Package config loads cerco settings from a YAML file.
//
// A settings file describes the page geometry, the text measurement model,
// the letterhead and footer lines, block dimensions, the default output
// format and the log level. Every field is optional; missing fields keep
// the defaults returned by Default.
//
// Example file:
//
//	page:
//	  size: letter
//	  margins: {top: 110, right: 54, bottom: 60, left: 54}
//	text:
//	  measurer: helvetica
//	letterhead:
//	  - STATE POLICE
//	  - Forensics Unit
//	footer:
//	  text: RESTRICTED
//	log:
//	  level: debug
//
// Find resolves the file to use: an explicit path, ./cerco.yaml, then
// cerco/config.yaml under the XDG configuration directories.
package config
